package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidDocument is returned when the input fails schema validation.
var ErrInvalidDocument = errors.New("invalid AST document")

// wireNode mirrors the parser's JSON output. Attribute values may be
// scalars or string arrays; Decode normalizes both to strings.
type wireNode struct {
	Type       string          `json:"type"`
	Value      string          `json:"value,omitempty"`
	Children   []wireNode      `json:"children,omitempty"`
	Attributes map[string]any  `json:"attributes,omitempty"`
	Line       int             `json:"source_line,omitempty"`
	Column     int             `json:"source_column,omitempty"`
}

// astSchema constrains the document shape before decoding. Node type tags
// are validated here so the closed NodeKind set holds everywhere else.
const astSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "node": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {
          "enum": ["program", "division", "section", "paragraph",
                   "statement", "data_item", "condition", "expression"]
        },
        "value": {"type": "string"},
        "source_line": {"type": "integer", "minimum": 0},
        "source_column": {"type": "integer", "minimum": 0},
        "attributes": {"type": "object"},
        "children": {"type": "array", "items": {"$ref": "#/$defs/node"}}
      }
    }
  },
  "$ref": "#/$defs/node"
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(astSchema))
	if err != nil {
		panic(fmt.Sprintf("ast: schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("ast.schema.json", doc); err != nil {
		panic(fmt.Sprintf("ast: schema: %v", err))
	}
	sch, err := c.Compile("ast.schema.json")
	if err != nil {
		panic(fmt.Sprintf("ast: schema: %v", err))
	}
	return sch
}

// Decode validates and decodes one parser document into an immutable tree.
// The root must be a program node; anything else is rejected here so the
// engine can treat a bad root as the only fatal input condition.
func Decode(data []byte) (*Program, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := compiledSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if NodeKind(w.Type) != KindProgram {
		return nil, fmt.Errorf("%w: root node is %q, want program", ErrInvalidDocument, w.Type)
	}

	root := convert(w)
	return &Program{Root: root, Name: root.Name()}, nil
}

// convert maps a wire node onto the closed model. The schema already
// guarantees the type tag is a member of the closed set.
func convert(w wireNode) *Node {
	n := &Node{
		Kind:   NodeKind(w.Type),
		Value:  w.Value,
		Line:   w.Line,
		Column: w.Column,
	}
	if len(w.Attributes) > 0 {
		n.Attributes = make(map[string]string, len(w.Attributes))
		for k, v := range w.Attributes {
			n.Attributes[k] = attrString(v)
		}
	}
	if n.Kind == KindStatement {
		n.Stmt = StatementKindOf(n.Attr("statement_type"))
	}
	if len(w.Children) > 0 {
		n.Children = make([]*Node, len(w.Children))
		for i, c := range w.Children {
			n.Children[i] = convert(c)
		}
	}
	return n
}

// attrString flattens attribute values: scalars print as themselves,
// arrays join on commas (the parser emits operand lists this way).
func attrString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = attrString(e)
		}
		return strings.Join(parts, ",")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// splitList splits a comma-joined attribute back into its elements.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
