package parse

import (
	"regexp"
	"slices"

	"github.com/phobologic/springmap/internal/model"
)

var (
	tableRe       = regexp.MustCompile(`@Table\b`)
	memberStartRe = regexp.MustCompile(`@[A-Za-z_$]|\bprivate\b`)
)

var fieldMarkers = map[string]string{
	"Id":             model.MarkerID,
	"GeneratedValue": model.MarkerGeneratedValue,
	"Column":         model.MarkerColumn,
}

// ParseEntity extracts an entity fact. ok is false when src has no entity
// marker or no class declaration.
func ParseEntity(src string) (*model.Entity, bool) {
	if !entityMarkerRe.MatchString(src) {
		return nil, false
	}
	name, ok := className(src)
	if !ok {
		return nil, false
	}
	en := &model.Entity{
		ClassName:     name,
		Fields:        []model.Field{},
		Relationships: []model.Relationship{},
	}
	if table, ok := annotationValue(src, tableRe, "name"); ok {
		en.TableName = &table
	}
	parseMembers(src, en)
	return en, true
}

// parseMembers scans "[annotations] private [modifiers] <type> <name>;"
// declarations. A member carrying a relationship annotation becomes a
// Relationship; every other member becomes a Field.
func parseMembers(src string, en *model.Entity) {
	consumed := 0
	for _, loc := range memberStartRe.FindAllStringIndex(src, -1) {
		if loc[0] < consumed {
			continue
		}
		c := cursor{src: src, pos: loc[0]}
		anns := c.annotations()
		afterAnns := c.pos
		consumed = max(loc[1], afterAnns)

		mods := c.modifiers()
		if !slices.Contains(mods, "private") {
			continue
		}
		typ, ok := c.typeToken()
		if !ok || isReservedType(typ) {
			continue
		}
		name, ok := c.ident()
		if !ok {
			continue
		}
		if next := c.next(); next != ';' && next != '=' {
			continue
		}
		consumed = c.pos

		if kind, ok := relationKind(anns); ok {
			en.Relationships = append(en.Relationships, model.Relationship{
				Kind:         kind,
				FieldName:    name,
				TargetEntity: targetEntity(typ),
			})
			continue
		}
		en.Fields = append(en.Fields, model.Field{
			Name:        name,
			Type:        typ,
			Annotations: markers(anns),
		})
	}
}

// relationKind returns the first relationship annotation in declaration
// order.
func relationKind(anns []annotation) (model.RelationKind, bool) {
	for _, a := range anns {
		for _, k := range model.RelationKinds {
			if a.name == string(k) {
				return k, true
			}
		}
	}
	return "", false
}

// markers returns the field marker annotations present, in declaration
// order and without repeats.
func markers(anns []annotation) []string {
	out := []string{}
	for _, a := range anns {
		m, ok := fieldMarkers[a.name]
		if ok && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// targetEntity resolves a relationship's target: the last generic argument
// of a container type (List<Order>, Map<Long, Order>), else the type.
func targetEntity(typ string) string {
	if args := genericArgs(typ); len(args) > 0 {
		return args[len(args)-1]
	}
	return typ
}
