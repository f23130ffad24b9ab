package graph

import (
	"reflect"
	"testing"

	"github.com/phobologic/springmap/internal/model"
)

func project() *model.Project {
	return &model.Project{
		Controllers: []model.Controller{
			{ClassName: "UserController"},
			{ClassName: "OrderController"},
			{ClassName: "HealthController"},
		},
		Services: []model.Service{
			{ClassName: "UserAuditService"},
			{ClassName: "UserService", Dependencies: []model.Dependency{
				{Type: "UserRepository", Name: "users"},
				{Type: "PasswordEncoder", Name: "encoder"},
				{Type: "UserAuditService", Name: "audit"},
			}},
			{ClassName: "OrderService", Dependencies: []model.Dependency{{Type: "OrderRepository", Name: "orders"}}},
		},
		Repositories: []model.Repository{
			{InterfaceName: "UserRepository", EntityType: "User"},
			{InterfaceName: "OrderRepository", EntityType: "Order"},
			{InterfaceName: "AuditRepository"},
		},
		Entities: []model.Entity{
			{ClassName: "User", Relationships: []model.Relationship{
				{Kind: model.OneToMany, FieldName: "orders", TargetEntity: "Order"},
				{Kind: model.OneToOne, FieldName: "avatar", TargetEntity: "Blob"},
			}},
			{ClassName: "Order"},
		},
	}
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"UserController", "User"},
		{"UserControllerV2", "UserControllerV2"},
		{"Controller", ""},
		{"AdminApi", "AdminApi"},
		{"ControllerUserController", "ControllerUser"},
	}
	for _, tt := range tests {
		if got := Prefix(tt.in); got != tt.want {
			t.Errorf("Prefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNamingResolver(t *testing.T) {
	t.Parallel()
	p := project()
	r := NamingResolver{}

	user := &p.Controllers[0]
	sr := r.Service(p, user)
	if sr.Index != 0 || sr.Candidates != 2 || !sr.Ambiguous() {
		t.Errorf("Service(UserController) = %+v, want first of 2", sr)
	}
	rr := r.Repository(p, user, &p.Services[sr.Index])
	if rr.Index != 0 || rr.Ambiguous() {
		t.Errorf("Repository(UserController) = %+v", rr)
	}
	er := r.Entity(p, &p.Repositories[rr.Index])
	if er.Index != 0 || !er.Found() {
		t.Errorf("Entity(UserRepository) = %+v", er)
	}

	if sr := r.Service(p, &p.Controllers[2]); sr.Found() {
		t.Errorf("Service(HealthController) = %+v, want unresolved", sr)
	}
	if er := r.Entity(p, &p.Repositories[2]); er.Found() {
		t.Errorf("Entity(AuditRepository) = %+v, want unresolved", er)
	}
}

func TestNamingResolverEntityIsExact(t *testing.T) {
	t.Parallel()
	p := &model.Project{
		Entities: []model.Entity{{ClassName: "UserProfile"}, {ClassName: "user"}},
	}
	if er := (NamingResolver{}).Entity(p, &model.Repository{EntityType: "User"}); er.Found() {
		t.Errorf("Entity matched %+v; want exact, case-sensitive match only", er)
	}
}

func TestBuildGraph(t *testing.T) {
	t.Parallel()

	got := BuildGraph(project(), NamingResolver{})
	want := []Edge{
		{Source: "OrderController", Target: "OrderRepository", Kind: Backs},
		{Source: "OrderController", Target: "OrderService", Kind: Handles},
		{Source: "OrderRepository", Target: "Order", Kind: Stores},
		{Source: "OrderService", Target: "OrderRepository", Kind: Injects},
		{Source: "User", Target: "Order", Kind: Relates},
		{Source: "UserController", Target: "UserAuditService", Kind: Handles},
		{Source: "UserController", Target: "UserRepository", Kind: Backs},
		{Source: "UserRepository", Target: "User", Kind: Stores},
		{Source: "UserService", Target: "UserAuditService", Kind: Injects},
		{Source: "UserService", Target: "UserRepository", Kind: Injects},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildGraph =\n%+v\nwant\n%+v", got, want)
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	t.Parallel()

	if got := BuildGraph(model.NewProject(), NamingResolver{}); len(got) != 0 {
		t.Errorf("BuildGraph(empty) = %+v", got)
	}
}
