package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProject(name string) *model.Project {
	table := "users"
	p := model.NewProject()
	p.Controllers = append(p.Controllers, model.Controller{
		ClassName: name + "Controller",
		BasePath:  "/" + name,
		Endpoints: []model.Endpoint{{HTTPMethod: "GET", MethodName: "list", ReturnType: "List<" + name + ">", Parameters: []model.Parameter{}}},
	})
	p.Entities = append(p.Entities, model.Entity{
		ClassName:     name,
		TableName:     &table,
		Fields:        []model.Field{{Name: "id", Type: "Long", Annotations: []string{"@Id"}}},
		Relationships: []model.Relationship{},
	})
	return p
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	want := sampleProject("User")
	run, err := s.Save(ctx, "/src/app", want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if run.ID == "" || run.Controllers != 1 || run.Entities != 1 || run.Endpoints != 1 {
		t.Errorf("run = %+v", run)
	}

	got, loaded, err := s.Load(ctx, run.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if loaded.ID != run.ID || loaded.Root != "/src/app" || !loaded.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("loaded run = %+v, want %+v", loaded, run)
	}
	if loaded.DocumentSize != run.DocumentSize {
		t.Errorf("DocumentSize = %d, want %d", loaded.DocumentSize, run.DocumentSize)
	}
}

func TestListAndLatest(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		run, err := s.Save(ctx, "/root", sampleProject(name))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List = %d runs, want 3", len(runs))
	}
	if runs[0].ID != ids[2] || runs[2].ID != ids[0] {
		t.Errorf("List not newest first: %v", []string{runs[0].ID, runs[1].ID, runs[2].ID})
	}

	limited, err := s.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List(1) = %d runs, %v", len(limited), err)
	}

	p, run, err := s.Load(ctx, Latest)
	if err != nil {
		t.Fatalf("Load(latest): %v", err)
	}
	if run.ID != ids[2] || p.Controllers[0].ClassName != "CController" {
		t.Errorf("Load(latest) = %s %s", run.ID, p.Controllers[0].ClassName)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	if _, _, err := s.Load(ctx, Latest); !serrors.Is(err, serrors.NotFound) {
		t.Errorf("Load(latest) on empty store = %v, want NOT_FOUND", err)
	}
	if _, _, err := s.Load(ctx, "no-such-run"); !serrors.Is(err, serrors.NotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}
}

func TestDeleteAndPrune(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C", "D"} {
		run, err := s.Save(ctx, "/root", sampleProject(name))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, run.ID)
	}

	if err := s.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, ids[0]); !serrors.Is(err, serrors.NotFound) {
		t.Errorf("second Delete = %v, want NOT_FOUND", err)
	}

	n, err := s.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune deleted %d, want 2", n)
	}
	runs, _ := s.List(ctx, 0)
	if len(runs) != 1 || runs[0].ID != ids[3] {
		t.Errorf("remaining runs = %+v", runs)
	}
}

func TestReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run, err := s.Save(ctx, "/root", sampleProject("User"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, got, err := s.Load(ctx, Latest); err != nil || got.ID != run.ID {
		t.Errorf("Load after reopen = %+v, %v", got, err)
	}
}
