package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/toolpipe/internal/graph"
)

func TestDecode(t *testing.T) {
	t.Run("parses the wire format", func(t *testing.T) {
		raw := `{
			"steps": [
				{"toolId": "generate-svg", "input": {"text": "hello"}},
				{"toolId": "echo", "input": {"x": "${{ steps.0.output.y }}", "n": 3}, "bypass": true},
				{"toolId": "print", "legacyMapping": {"value": {"fromStep": 0, "field": "svg.width"}}}
			]
		}`

		p, err := Decode([]byte(raw))
		require.NoError(t, err)
		require.Len(t, p.Steps, 3)

		assert.Equal(t, "generate-svg", p.Steps[0].ToolID)
		assert.Equal(t, map[string]any{"text": "hello"}, p.Steps[0].Input)

		assert.True(t, p.Steps[1].Bypass)
		assert.Equal(t, "${{ steps.0.output.y }}", p.Steps[1].Input["x"])
		assert.Equal(t, float64(3), p.Steps[1].Input["n"]) // JSON numbers decode as float64

		require.Contains(t, p.Steps[2].LegacyMapping, "value")
		m := p.Steps[2].LegacyMapping["value"]
		assert.Equal(t, 0, m.FromStep)
		assert.Equal(t, "svg.width", m.Field)
	})

	t.Run("malformed JSON is reported", func(t *testing.T) {
		_, err := Decode([]byte("{"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "decode pipeline")
	})
}

func TestEncode(t *testing.T) {
	t.Run("optional fields are omitted when empty", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{{ToolID: "echo"}}}

		data, err := Encode(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"steps":[{"toolId":"echo"}]}`, string(data))
	})

	t.Run("legacy mapping field is omitted when empty", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{{
			ToolID:        "print",
			LegacyMapping: map[string]Mapping{"value": {FromStep: 2}},
		}}}

		data, err := Encode(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"steps":[{"toolId":"print","legacyMapping":{"value":{"fromStep":2}}}]}`, string(data))
	})
}

func TestValidate(t *testing.T) {
	t.Run("well-formed pipeline passes", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{
			{ToolID: "generate-svg"},
			{ToolID: "echo", LegacyMapping: map[string]Mapping{"x": {FromStep: 0}}},
		}}
		assert.NoError(t, p.Validate())
	})

	t.Run("missing toolId is reported with its index", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{{ToolID: "echo"}, {}}}
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "steps[1].toolId: must not be empty")
	})

	t.Run("negative fromStep is reported", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{{
			ToolID:        "echo",
			LegacyMapping: map[string]Mapping{"x": {FromStep: -1}},
		}}}
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, `steps[0].legacyMapping["x"].fromStep: must not be negative`)
	})

	t.Run("all violations are collected into one error", func(t *testing.T) {
		p := &Pipeline{Steps: []Step{
			{},
			{ToolID: "echo", LegacyMapping: map[string]Mapping{"x": {FromStep: -2}}},
		}}
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "steps[0].toolId")
		assert.ErrorContains(t, err, "steps[1].legacyMapping")
	})
}

func TestValidateSaveInput(t *testing.T) {
	valid := func() SaveInput {
		return SaveInput{ID: "my-pipeline", Name: "My Pipeline"}
	}

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, ValidateSaveInput(valid()))

		long := valid()
		long.ID = strings.Repeat("a", 64)
		long.Name = strings.Repeat("n", 128)
		long.Description = strings.Repeat("d", 1024)
		assert.NoError(t, ValidateSaveInput(long))
	})

	t.Run("id length limits", func(t *testing.T) {
		in := valid()
		in.ID = ""
		assert.ErrorContains(t, ValidateSaveInput(in), "id: must be 1-64 characters")

		in.ID = strings.Repeat("a", 65)
		assert.ErrorContains(t, ValidateSaveInput(in), "id: must be 1-64 characters")
	})

	t.Run("id character rules", func(t *testing.T) {
		for _, id := range []string{"My-Pipeline", "my_pipeline", "my pipeline", "-leading", "trailing-"} {
			in := valid()
			in.ID = id
			assert.ErrorContains(t, ValidateSaveInput(in), "id: must contain only", "id %q", id)
		}
	})

	t.Run("reserved ids are rejected", func(t *testing.T) {
		for _, id := range []string{"new", "run"} {
			in := valid()
			in.ID = id
			assert.ErrorContains(t, ValidateSaveInput(in), "is reserved", "id %q", id)
		}
	})

	t.Run("name length limits", func(t *testing.T) {
		in := valid()
		in.Name = ""
		assert.ErrorContains(t, ValidateSaveInput(in), "name: must be 1-128 characters")

		in.Name = strings.Repeat("n", 129)
		assert.ErrorContains(t, ValidateSaveInput(in), "name: must be 1-128 characters")
	})

	t.Run("description length limit", func(t *testing.T) {
		in := valid()
		in.Description = strings.Repeat("d", 1025)
		assert.ErrorContains(t, ValidateSaveInput(in), "description: must be at most 1024 characters")
	})

	t.Run("violations are collected", func(t *testing.T) {
		err := ValidateSaveInput(SaveInput{ID: "UPPER", Name: ""})
		require.Error(t, err)
		assert.ErrorContains(t, err, "id:")
		assert.ErrorContains(t, err, "name:")
	})
}

func TestSavedClone(t *testing.T) {
	s := &Saved{
		ID:   "demo",
		Name: "Demo",
		Pipeline: Pipeline{Steps: []Step{{
			ToolID:        "echo",
			Input:         map[string]any{"obj": map[string]any{"k": "v"}, "list": []any{1.0, 2.0}},
			LegacyMapping: map[string]Mapping{"x": {FromStep: 0}},
		}}},
		Layout: &Layout{
			Nodes:    []graph.NodePlacement{{ID: "step-0", Position: graph.Position{X: 1, Y: 2}}},
			Viewport: &Viewport{Zoom: 1},
		},
	}

	c := s.Clone()
	c.Steps[0].Input["obj"].(map[string]any)["k"] = "changed"
	c.Steps[0].Input["list"].([]any)[0] = 9.0
	c.Steps[0].LegacyMapping["x"] = Mapping{FromStep: 5}
	c.Layout.Nodes[0].Position.X = 99
	c.Layout.Viewport.Zoom = 3

	assert.Equal(t, "v", s.Steps[0].Input["obj"].(map[string]any)["k"])
	assert.Equal(t, 1.0, s.Steps[0].Input["list"].([]any)[0])
	assert.Equal(t, 0, s.Steps[0].LegacyMapping["x"].FromStep)
	assert.Equal(t, 1.0, s.Layout.Nodes[0].Position.X)
	assert.Equal(t, 1.0, s.Layout.Viewport.Zoom)
}

func TestSavedWireFormat(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Saved{
		ID:        "demo",
		Name:      "Demo",
		Pipeline:  Pipeline{Steps: []Step{{ToolID: "echo"}}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := EncodeSaved(s)
	require.NoError(t, err)
	// The pipeline definition is embedded: "steps" sits at the top level.
	assert.JSONEq(t, `{
		"id": "demo",
		"name": "Demo",
		"steps": [{"toolId": "echo"}],
		"createdAt": "2025-06-01T12:00:00Z",
		"updatedAt": "2025-06-01T12:00:00Z"
	}`, string(data))

	back, err := DecodeSaved(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}
