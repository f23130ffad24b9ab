package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "/users", "/users"},
		{"path variable", "/users/{id}", `"/users/{id}"`},
		{"generic", "List<User>", "List<User>"},
		{"two generic args", "Map<String, Long>", `"Map<String, Long>"`},
		{"handler", "UserController.getAll", "UserController.getAll"},
		{"array type", "byte[]", `"byte[]"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	users := "users"
	p := &model.Project{
		Controllers: []model.Controller{{
			ClassName: "UserController",
			BasePath:  "/users",
			Endpoints: []model.Endpoint{
				{HTTPMethod: "GET", MethodName: "getAll", ReturnType: "List<User>"},
				{HTTPMethod: "GET", Path: "/{id}", MethodName: "getById", ReturnType: "User", Parameters: []model.Parameter{
					{Name: "id", Type: "Long", Annotation: "PathVariable"},
				}},
			},
		}},
		Services: []model.Service{{
			ClassName:    "UserService",
			Dependencies: []model.Dependency{{Type: "UserRepository", Name: "userRepository"}},
			Methods:      []model.Method{{Name: "findAll"}, {Name: "findById"}},
		}},
		Repositories: []model.Repository{{
			InterfaceName: "UserRepository",
			EntityType:    "User",
			IDType:        "Long",
			CustomMethods: []model.Method{{Name: "findByName"}},
		}},
		Entities: []model.Entity{{
			ClassName:     "User",
			TableName:     &users,
			Fields:        []model.Field{{Name: "id", Type: "Long", Annotations: []string{"@Id", "@GeneratedValue"}}},
			Relationships: []model.Relationship{{Kind: model.OneToMany, FieldName: "orders", TargetEntity: "Order"}},
		}},
	}

	want := []string{
		"project: demo",
		"controllers[1]{class,basePath,endpoints}:",
		"  UserController,/users,2",
		"endpoints[2]{method,path,handler,returns,params}:",
		`  GET,/users,UserController.getAll,List<User>,""`,
		`  GET,"/users/{id}",UserController.getById,User,Long id`,
		"services[1]{class,dependencies,methods}:",
		"  UserService,UserRepository,findAll findById",
		"repositories[1]{interface,entity,id,methods}:",
		"  UserRepository,User,Long,findByName",
		"entities[1]{class,table}:",
		"  User,users",
		"fields[1]{entity,name,type,markers}:",
		"  User,id,Long,@Id @GeneratedValue",
		"relationships[1]{entity,kind,field,target}:",
		"  User,OneToMany,orders,Order",
	}

	got := strings.Split(Encode("demo", p), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode("empty", model.NewProject())
	for _, want := range []string{
		"controllers[0]{class,basePath,endpoints}:",
		"endpoints[0]{method,path,handler,returns,params}:",
		"entities[0]{class,table}:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "relationships[") {
		t.Errorf("empty project rendered a relationships table:\n%s", got)
	}
}

func TestEncodeEdges(t *testing.T) {
	t.Parallel()

	got := EncodeEdges([]graph.Edge{
		{Source: "UserController", Target: "UserService", Kind: graph.Handles},
		{Source: "UserRepository", Target: "User", Kind: graph.Stores},
	})
	want := "edges[2]{source,target,kind}:\n" +
		"  UserController,UserService,handles\n" +
		"  UserRepository,User,stores"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if got := EncodeEdges(nil); got != "edges[0]{source,target,kind}:" {
		t.Errorf("empty edges: %q", got)
	}
}
