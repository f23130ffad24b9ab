// Package model defines the fact records recovered from a source tree and the
// immutable project model that aggregates them.
package model

// Kind identifies one of the four fact kinds.
type Kind string

const (
	KindController Kind = "controller"
	KindService    Kind = "service"
	KindRepository Kind = "repository"
	KindEntity     Kind = "entity"
)

// Kinds lists every fact kind in classification priority order.
var Kinds = []Kind{KindController, KindService, KindRepository, KindEntity}

// Title returns the capitalized kind name used in reports ("Controller").
func (k Kind) Title() string {
	switch k {
	case KindController:
		return "Controller"
	case KindService:
		return "Service"
	case KindRepository:
		return "Repository"
	case KindEntity:
		return "Entity"
	}
	return string(k)
}

// ParseKind maps a kind name to a Kind. ok is false for unknown names.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// HTTP methods recognized on endpoints.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

// Parameter is one declared method parameter. Annotation holds the binding
// marker name without "@" (e.g. "PathVariable") and is empty when absent.
type Parameter struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Endpoint is one HTTP-reachable operation of a controller.
type Endpoint struct {
	HTTPMethod string      `json:"httpMethod" yaml:"httpMethod"`
	Path       string      `json:"path" yaml:"path"`
	MethodName string      `json:"methodName" yaml:"methodName"`
	ReturnType string      `json:"returnType" yaml:"returnType"`
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
}

// Controller is a class exposing at least one endpoint.
type Controller struct {
	ClassName string     `json:"className" yaml:"className"`
	BasePath  string     `json:"basePath" yaml:"basePath"`
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Dependency is an injected collaborator of a service.
type Dependency struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Method is a service or repository method signature.
type Method struct {
	Name       string      `json:"name" yaml:"name"`
	ReturnType string      `json:"returnType" yaml:"returnType"`
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
}

// Service is a service-layer class.
type Service struct {
	ClassName    string       `json:"className" yaml:"className"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
	Methods      []Method     `json:"methods" yaml:"methods"`
}

// Repository is a data-access interface. EntityType and IDType are the raw
// generic arguments of the extended base repository, empty when absent.
type Repository struct {
	InterfaceName string   `json:"interfaceName" yaml:"interfaceName"`
	EntityType    string   `json:"entityType" yaml:"entityType"`
	IDType        string   `json:"idType" yaml:"idType"`
	CustomMethods []Method `json:"customMethods" yaml:"customMethods"`
}

// Field marker annotations, stored with their "@" prefix.
const (
	MarkerID             = "@Id"
	MarkerGeneratedValue = "@GeneratedValue"
	MarkerColumn         = "@Column"
)

// Field is a persisted, non-relationship entity member.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Annotations []string `json:"annotations" yaml:"annotations"`
}

// RelationKind is one of the four relationship annotations.
type RelationKind string

const (
	OneToMany  RelationKind = "OneToMany"
	ManyToOne  RelationKind = "ManyToOne"
	OneToOne   RelationKind = "OneToOne"
	ManyToMany RelationKind = "ManyToMany"
)

// RelationKinds lists the relationship kinds in recognition order.
var RelationKinds = []RelationKind{OneToMany, ManyToOne, OneToOne, ManyToMany}

// Relationship is an entity member marked with a relationship annotation.
type Relationship struct {
	Kind         RelationKind `json:"kind" yaml:"kind"`
	FieldName    string       `json:"fieldName" yaml:"fieldName"`
	TargetEntity string       `json:"targetEntity" yaml:"targetEntity"`
}

// Entity is a persistence entity. TableName is nil when no table annotation
// names the table.
type Entity struct {
	ClassName     string         `json:"className" yaml:"className"`
	TableName     *string        `json:"tableName" yaml:"tableName"`
	Fields        []Field        `json:"fields" yaml:"fields"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Table returns the table name, falling back to the class name.
func (e *Entity) Table() string {
	if e.TableName != nil && *e.TableName != "" {
		return *e.TableName
	}
	return e.ClassName
}
