package querycache

import "strings"

// MutationKind names a write operation against the remote service. Each
// kind maps to the set of fingerprint families it invalidates.
type MutationKind string

const (
	MutationCaseCreate MutationKind = "case.create"
	MutationCaseUpdate MutationKind = "case.update"
	MutationCaseDelete MutationKind = "case.delete"

	MutationCaseNoteAdd    MutationKind = "case.note.add"
	MutationCaseNoteDelete MutationKind = "case.note.delete"

	MutationCaseAssignmentAdd    MutationKind = "case.assignment.add"
	MutationCaseAssignmentRemove MutationKind = "case.assignment.remove"

	MutationCaseTypeCreate MutationKind = "casetype.create"
	MutationCaseTypeDelete MutationKind = "casetype.delete"

	MutationClientCreate MutationKind = "client.create"
	MutationClientUpdate MutationKind = "client.update"
	MutationClientDelete MutationKind = "client.delete"

	MutationTaskCreate   MutationKind = "task.create"
	MutationTaskUpdate   MutationKind = "task.update"
	MutationTaskDelete   MutationKind = "task.delete"
	MutationTaskComplete MutationKind = "task.complete"

	MutationDocumentUpload MutationKind = "document.upload"
	MutationDocumentUpdate MutationKind = "document.update"
	MutationDocumentDelete MutationKind = "document.delete"

	MutationFirmUpdate       MutationKind = "firm.update"
	MutationFirmMemberInvite MutationKind = "firm.member.invite"
	MutationFirmMemberUpdate MutationKind = "firm.member.update"
	MutationFirmMemberRemove MutationKind = "firm.member.remove"
)

// Graph is the static mapping from each mutation kind to the fingerprint
// families it invalidates. Declared once at startup, read-only thereafter.
//
// Family templates may contain "%{name}" placeholders expanded from the
// mutation arguments ("cases/%{case_id}/notes"). A missing argument
// truncates the template at the placeholder, widening the family: the
// policy is to invalidate the coarsest family that could have changed,
// never to assume a narrower scope.
type Graph struct {
	rules map[MutationKind][]string
}

// NewGraph builds a graph from the given rule table. The table is copied;
// later changes to the argument do not affect the graph.
func NewGraph(rules map[MutationKind][]string) *Graph {
	copied := make(map[MutationKind][]string, len(rules))
	for kind, families := range rules {
		copied[kind] = append([]string(nil), families...)
	}
	return &Graph{rules: copied}
}

// DefaultGraph declares the invalidation fan-out for the case-management
// resources. Case and task mutations also touch the dashboard aggregates,
// so those families are included.
func DefaultGraph() *Graph {
	caseFamilies := []string{"cases/", "dashboard/"}
	taskFamilies := []string{"tasks/", "dashboard/"}

	return NewGraph(map[MutationKind][]string{
		MutationCaseCreate: caseFamilies,
		MutationCaseUpdate: caseFamilies,
		MutationCaseDelete: caseFamilies,

		MutationCaseNoteAdd:    {"cases/%{case_id}/notes"},
		MutationCaseNoteDelete: {"cases/%{case_id}/notes"},

		MutationCaseAssignmentAdd:    {"cases/%{case_id}/assignments"},
		MutationCaseAssignmentRemove: {"cases/%{case_id}/assignments"},

		MutationCaseTypeCreate: {"case-types"},
		MutationCaseTypeDelete: {"case-types"},

		MutationClientCreate: {"clients/"},
		MutationClientUpdate: {"clients/"},
		MutationClientDelete: {"clients/"},

		MutationTaskCreate:   taskFamilies,
		MutationTaskUpdate:   taskFamilies,
		MutationTaskDelete:   taskFamilies,
		MutationTaskComplete: taskFamilies,

		MutationDocumentUpload: {"documents/"},
		MutationDocumentUpdate: {"documents/"},
		MutationDocumentDelete: {"documents/"},

		MutationFirmUpdate:       {"firms/"},
		MutationFirmMemberInvite: {"firms/"},
		MutationFirmMemberUpdate: {"firms/"},
		MutationFirmMemberRemove: {"firms/"},
	})
}

// Families resolves the invalidation families for a mutation, expanding
// template placeholders from args.
func (g *Graph) Families(kind MutationKind, args map[string]string) []Family {
	templates, ok := g.rules[kind]
	if !ok {
		return nil
	}

	families := make([]Family, 0, len(templates))
	for _, tmpl := range templates {
		families = append(families, expandFamily(tmpl, args))
	}
	return families
}

// Kinds returns every mutation kind the graph knows about.
func (g *Graph) Kinds() []MutationKind {
	kinds := make([]MutationKind, 0, len(g.rules))
	for kind := range g.rules {
		kinds = append(kinds, kind)
	}
	return kinds
}

func expandFamily(tmpl string, args map[string]string) Family {
	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "%{")
		if start < 0 {
			b.WriteString(rest)
			return Family(b.String())
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			b.WriteString(rest)
			return Family(b.String())
		}

		name := rest[start+2 : start+end]
		value, ok := args[name]
		if !ok || value == "" {
			// No argument to narrow by: cut the family at the
			// placeholder and invalidate the wider prefix.
			b.WriteString(rest[:start])
			return Family(b.String())
		}
		b.WriteString(rest[:start])
		b.WriteString(value)
		rest = rest[start+end+1:]
	}
}
