package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createBodyWire mirrors the shape of the index-creation payload.
type createBodyWire struct {
	Mappings map[string]struct {
		Properties map[string]struct {
			Type  string `json:"type"`
			Index string `json:"index"`
		} `json:"properties"`
	} `json:"mappings"`
}

func TestBuildbot_Valid(t *testing.T) {
	require.NoError(t, Buildbot().Validate())
}

func TestBuildbot_DocTypes(t *testing.T) {
	assert.Equal(t, []string{"build", "step"}, Buildbot().DocTypes())
}

func TestBuildbot_PropertySets(t *testing.T) {
	s := Buildbot()

	buildFields, ok := s.FieldNames(DocTypeBuild)
	require.True(t, ok)
	assert.Equal(t, []string{
		"blamelist", "builder", "duration", "end", "name", "number",
		"project", "result", "slave", "start", "tags", "total_duration",
		"type", "waiting_duration",
	}, buildFields)

	stepFields, ok := s.FieldNames(DocTypeStep)
	require.True(t, ok)
	assert.Equal(t, []string{
		"blamelist", "branch", "buildername", "buildnumber", "duration",
		"end", "got_revision", "repository", "result", "revision",
		"slave", "slavename", "start", "step_name", "step_number", "tags",
	}, stepFields)
}

func TestBuildbot_CategoricalFieldsNotAnalyzed(t *testing.T) {
	s := Buildbot()

	categorical := map[string][]string{
		DocTypeBuild: {"name", "project", "builder", "slave", "type", "result"},
		DocTypeStep: {
			"step_name", "buildername", "repository", "got_revision",
			"branch", "revision", "slavename", "slave", "result",
		},
	}

	for docType, fields := range categorical {
		for _, name := range fields {
			f, ok := s[docType][name]
			require.True(t, ok, "%s.%s not declared", docType, name)
			assert.Equal(t, TypeString, f.Type, "%s.%s", docType, name)
			assert.False(t, f.Analyzed, "%s.%s should be not_analyzed", docType, name)
		}
	}
}

func TestBuildbot_FreeTextFieldsAnalyzed(t *testing.T) {
	s := Buildbot()

	for _, docType := range []string{DocTypeBuild, DocTypeStep} {
		for _, name := range []string{"blamelist", "tags"} {
			f, ok := s[docType][name]
			require.True(t, ok, "%s.%s not declared", docType, name)
			assert.Equal(t, TypeString, f.Type, "%s.%s", docType, name)
			assert.True(t, f.Analyzed, "%s.%s should be analyzed", docType, name)
		}
	}
}

func TestBuildbot_FieldTypesSupported(t *testing.T) {
	supported := map[FieldType]bool{
		TypeString: true,
		TypeLong:   true,
		TypeDouble: true,
		TypeDate:   true,
	}

	for docType, mapping := range Buildbot() {
		for name, f := range mapping {
			assert.True(t, supported[f.Type], "%s.%s has type %q", docType, name, f.Type)
		}
	}
}

func TestCreateBody_ValidJSON(t *testing.T) {
	body, err := Buildbot().CreateBody()
	require.NoError(t, err)
	assert.True(t, json.Valid(body))
}

func TestCreateBody_Shape(t *testing.T) {
	body, err := Buildbot().CreateBody()
	require.NoError(t, err)

	var wire createBodyWire
	require.NoError(t, json.Unmarshal(body, &wire))

	require.Contains(t, wire.Mappings, "build")
	require.Contains(t, wire.Mappings, "step")
	assert.Len(t, wire.Mappings, 2)

	builder := wire.Mappings["build"].Properties["builder"]
	assert.Equal(t, "string", builder.Type)
	assert.Equal(t, "not_analyzed", builder.Index)

	blamelist := wire.Mappings["build"].Properties["blamelist"]
	assert.Equal(t, "string", blamelist.Type)
	assert.Empty(t, blamelist.Index, "analyzed strings carry no index setting")

	duration := wire.Mappings["step"].Properties["duration"]
	assert.Equal(t, "double", duration.Type)
	assert.Empty(t, duration.Index)

	start := wire.Mappings["build"].Properties["start"]
	assert.Equal(t, "date", start.Type)
}

func TestField_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"exact-match string", Field{Type: TypeString}, `{"type":"string","index":"not_analyzed"}`},
		{"analyzed string", Field{Type: TypeString, Analyzed: true}, `{"type":"string"}`},
		{"long", Field{Type: TypeLong}, `{"type":"long"}`},
		{"double", Field{Type: TypeDouble}, `{"type":"double"}`},
		{"date", Field{Type: TypeDate}, `{"type":"date"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.field)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"type":"string","index":"not_analyzed"}`), &f))
	assert.Equal(t, Field{Type: TypeString}, f)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"string"}`), &f))
	assert.Equal(t, Field{Type: TypeString, Analyzed: true}, f)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"long"}`), &f))
	assert.Equal(t, Field{Type: TypeLong}, f)
}

func TestField_UnmarshalJSON_BadIndexSetting(t *testing.T) {
	var f Field
	err := json.Unmarshal([]byte(`{"type":"string","index":"no"}`), &f)
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{"empty schema", Schema{}},
		{"unnamed document type", Schema{"": Mapping{"a": {Type: TypeLong}}}},
		{"empty mapping", Schema{"build": Mapping{}}},
		{"unsupported type", Schema{"build": Mapping{"size": {Type: "integer"}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.schema.Validate())
		})
	}
}

func TestFieldNames_UnknownDocType(t *testing.T) {
	_, ok := Buildbot().FieldNames("deployment")
	assert.False(t, ok)
}
