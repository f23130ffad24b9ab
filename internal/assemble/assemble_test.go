package assemble

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/phobologic/springmap/internal/discover"
	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const base = "src/main/java/com/example/"

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, base+"controller/UserController.java", `@RestController
@RequestMapping("/users")
public class UserController {
    @GetMapping
    public List<User> getAll() {
        return null;
    }
}
`)
	writeFile(t, root, base+"controller/HealthController.java", `@RestController
public class HealthController {
    public String ping() { return "ok"; }
}
`)
	writeFile(t, root, base+"service/UserService.java", `@Service
public class UserService {
    @Autowired
    private UserRepository userRepository;

    public List<User> findAll() {
        return userRepository.findAll();
    }
}
`)
	writeFile(t, root, base+"repository/UserRepository.java", `public interface UserRepository extends JpaRepository<User, Long> {
    List<User> findByName(String name);
}
`)
	writeFile(t, root, base+"model/User.java", `@Entity
@Table(name = "users")
public class User {
    @Id
    private Long id;
}
`)
	writeFile(t, root, base+"model/Address.java", `@Entity
public class Address {
    private String street;
}
`)
	writeFile(t, root, base+"util/Strings.java", "public final class Strings {}\n")
	writeFile(t, root, "src/test/java/com/example/UserControllerTest.java", `@RestController
public class UserControllerTest {
    @GetMapping("/x")
    public String x() { return ""; }
}
`)
	return root
}

func TestBuild(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	p, stats, err := Build(context.Background(), root, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if stats.Files != 7 {
		t.Errorf("Files = %d, want 7", stats.Files)
	}
	if stats.Facts != 5 {
		t.Errorf("Facts = %d, want 5", stats.Facts)
	}

	counts := map[model.Kind]int{
		model.KindController: 1,
		model.KindService:    1,
		model.KindRepository: 1,
		model.KindEntity:     2,
	}
	for k, want := range counts {
		if got := p.Count(k); got != want {
			t.Errorf("Count(%s) = %d, want %d", k, got, want)
		}
	}

	// Discovery order: model/Address.java before model/User.java.
	if p.Entities[0].ClassName != "Address" || p.Entities[1].ClassName != "User" {
		t.Errorf("entity order = %s, %s", p.Entities[0].ClassName, p.Entities[1].ClassName)
	}
	if p.Controllers[0].ClassName != "UserController" {
		t.Errorf("controller = %s", p.Controllers[0].ClassName)
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	first, _, err := Build(context.Background(), root, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, workers := range []int{2, 8, 0} {
		again, _, err := Build(context.Background(), root, Options{Workers: workers})
		if err != nil {
			t.Fatalf("Build(workers=%d): %v", workers, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Errorf("Build(workers=%d) differs from a single-worker build", workers)
		}
	}
}

func TestBuildCancelled(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _, err := Build(ctx, root, Options{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !serrors.Is(err, serrors.Canceled) {
		t.Errorf("error = %v, want CANCELED", err)
	}
	if p != nil {
		t.Error("cancelled build returned a project")
	}
}

func TestBuildMissingRoot(t *testing.T) {
	t.Parallel()

	p, _, err := Build(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	if !serrors.Is(err, serrors.FileSystemError) {
		t.Errorf("error = %v, want FILESYSTEM_ERROR", err)
	}
	if p != nil {
		t.Error("failed build returned a project")
	}
}

func TestBuildEmptyTree(t *testing.T) {
	t.Parallel()

	p, stats, err := Build(context.Background(), t.TempDir(), Options{
		Discover: discover.Options{Extensions: []string{".java"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.Files != 0 || p.Count(model.KindController) != 0 {
		t.Errorf("empty tree produced %+v", stats)
	}
	if p.Controllers == nil || p.Entities == nil {
		t.Error("empty project has nil sequences")
	}
}

func TestAssembleKeepsOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	facts := []model.Fact{
		&model.Entity{ClassName: "User"},
		nil,
		&model.Service{ClassName: "UserService"},
		&model.Entity{ClassName: "User"},
		&model.Entity{ClassName: "Order"},
	}
	p := Assemble(facts)

	var names []string
	for _, e := range p.Entities {
		names = append(names, e.ClassName)
	}
	if want := []string{"User", "User", "Order"}; !reflect.DeepEqual(names, want) {
		t.Errorf("entities = %v, want %v", names, want)
	}
	if len(p.Services) != 1 {
		t.Errorf("services = %d, want 1", len(p.Services))
	}
}
