package survey

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoCatalogueFiles is returned by LoadCatalogue when the pattern matches
// no files.
var ErrNoCatalogueFiles = errors.New("no catalogue files matched")

// catalogueFile is the TOML shape of a catalogue file:
//
//	name = "bacc-advocacy"
//
//	[[questions]]
//	id = "married"
//	kind = "single"
//	title = "Are you married?"
//	options = ["Yes", "No"]
//
//	[[questions]]
//	id = "spouseImpact"
//	kind = "multi"
//	allow_other = true
//	when = { question = "married", equals = "Yes" }
type catalogueFile struct {
	Name      string         `toml:"name"`
	Questions []questionFile `toml:"questions"`
}

type questionFile struct {
	ID          string         `toml:"id"`
	Kind        string         `toml:"kind"`
	Title       string         `toml:"title"`
	Description string         `toml:"description"`
	Statement   string         `toml:"statement"`
	Content     string         `toml:"content"`
	Options     []string       `toml:"options"`
	AllowOther  bool           `toml:"allow_other"`
	HasFollowUp bool           `toml:"has_follow_up"`
	Required    bool           `toml:"required"`
	When        *ConditionSpec `toml:"when"`
}

// ConditionSpec is the declarative form of a Condition. Exactly one operator
// must be set: equals, not_equals, includes or answered (each with
// question), or one of all, any, not.
type ConditionSpec struct {
	Question  string          `toml:"question"`
	Equals    *string         `toml:"equals"`
	NotEquals *string         `toml:"not_equals"`
	Includes  *string         `toml:"includes"`
	Answered  bool            `toml:"answered"`
	All       []ConditionSpec `toml:"all"`
	Any       []ConditionSpec `toml:"any"`
	Not       *ConditionSpec  `toml:"not"`
}

// Build converts the declarative form into a Condition.
func (cs *ConditionSpec) Build() (Condition, error) {
	var ops []string
	if cs.Equals != nil {
		ops = append(ops, "equals")
	}
	if cs.NotEquals != nil {
		ops = append(ops, "not_equals")
	}
	if cs.Includes != nil {
		ops = append(ops, "includes")
	}
	if cs.Answered {
		ops = append(ops, "answered")
	}
	if cs.All != nil {
		ops = append(ops, "all")
	}
	if cs.Any != nil {
		ops = append(ops, "any")
	}
	if cs.Not != nil {
		ops = append(ops, "not")
	}

	switch len(ops) {
	case 0:
		return nil, fmt.Errorf("condition has no operator")
	case 1:
	default:
		return nil, fmt.Errorf("condition has several operators: %s", strings.Join(ops, ", "))
	}

	needsQuestion := cs.Equals != nil || cs.NotEquals != nil || cs.Includes != nil || cs.Answered
	if needsQuestion && cs.Question == "" {
		return nil, fmt.Errorf("%s condition needs a question", ops[0])
	}
	if !needsQuestion && cs.Question != "" {
		return nil, fmt.Errorf("%s condition does not take a question", ops[0])
	}

	switch {
	case cs.Equals != nil:
		return Equals{Question: cs.Question, Value: *cs.Equals}, nil
	case cs.NotEquals != nil:
		return NotEquals{Question: cs.Question, Value: *cs.NotEquals}, nil
	case cs.Includes != nil:
		return Includes{Question: cs.Question, Value: *cs.Includes}, nil
	case cs.Answered:
		return Answered{Question: cs.Question}, nil
	case cs.Not != nil:
		inner, err := cs.Not.Build()
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return Not{Cond: inner}, nil
	case cs.All != nil:
		members, err := buildAll(cs.All, "all")
		if err != nil {
			return nil, err
		}
		return AllOf(members), nil
	default:
		members, err := buildAll(cs.Any, "any")
		if err != nil {
			return nil, err
		}
		return AnyOf(members), nil
	}
}

func buildAll(specs []ConditionSpec, op string) ([]Condition, error) {
	out := make([]Condition, 0, len(specs))
	for i := range specs {
		c, err := specs[i].Build()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCatalogue reads every TOML file matching the doublestar pattern (for
// example "surveys/**/*.toml") and concatenates their questions in sorted
// path order. The catalogue name is taken from the first file that sets one.
// The result is not validated; call Validate.
func LoadCatalogue(pattern string) (*Catalogue, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("loading catalogue: invalid pattern %q", pattern)
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("loading catalogue %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("loading catalogue %q: %w", pattern, ErrNoCatalogueFiles)
	}
	sort.Strings(paths)

	cat := &Catalogue{}
	for _, p := range paths {
		part, err := LoadCatalogueFile(p)
		if err != nil {
			return nil, err
		}
		if cat.Name == "" {
			cat.Name = part.Name
		}
		cat.Questions = append(cat.Questions, part.Questions...)
	}
	return cat, nil
}

// LoadCatalogueFile parses a single catalogue file. Unknown keys are
// rejected so that typos in condition operators do not silently make a
// question unconditional.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	var f catalogueFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading catalogue %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cat := &Catalogue{Name: f.Name, Questions: make([]Question, 0, len(f.Questions))}
	for i, qf := range f.Questions {
		kind, ok := ParseKind(qf.Kind)
		if !ok {
			return nil, fmt.Errorf("loading catalogue %s: question %d (%q): unknown kind %q", path, i, qf.ID, qf.Kind)
		}
		q := Question{
			ID:          qf.ID,
			Kind:        kind,
			Title:       qf.Title,
			Description: qf.Description,
			Statement:   qf.Statement,
			Content:     qf.Content,
			Options:     qf.Options,
			AllowOther:  qf.AllowOther,
			HasFollowUp: qf.HasFollowUp,
			Required:    qf.Required,
		}
		if qf.When != nil {
			cond, err := qf.When.Build()
			if err != nil {
				return nil, fmt.Errorf("loading catalogue %s: question %q: when: %w", path, qf.ID, err)
			}
			q.When = cond
		}
		cat.Questions = append(cat.Questions, q)
	}
	return cat, nil
}
