package manifest

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func loadOne(t *testing.T, src string) []Decl {
	t.Helper()
	fsys := fstest.MapFS{"tools.hcl": &fstest.MapFile{Data: []byte(src)}}
	decls, err := Load(context.Background(), fsys)
	require.NoError(t, err)
	return decls
}

func TestLoad(t *testing.T) {
	t.Run("parses a full tool declaration", func(t *testing.T) {
		decls := loadOne(t, `
tool "delay" {
  name        = "Delay"
  description = "Waits before continuing."
  category    = "utility"

  input "ms" {
    type     = number
    required = true
  }

  output "ms" {
    type = number
  }
}
`)
		require.Len(t, decls, 1)
		d := decls[0]
		assert.Equal(t, "delay", d.ID)
		assert.Equal(t, "Delay", d.Name)
		assert.Equal(t, "utility", d.Category)

		require.Len(t, d.Inputs, 1)
		assert.Equal(t, "ms", d.Inputs[0].Key)
		assert.Equal(t, cty.Number, d.Inputs[0].Type)
		assert.True(t, d.Inputs[0].Required)

		require.Len(t, d.Outputs, 1)
		assert.Equal(t, cty.Number, d.Outputs[0].Type)
	})

	t.Run("collection and any types", func(t *testing.T) {
		decls := loadOne(t, `
tool "env-vars" {
  input "names" {
    type     = list(string)
    required = true
  }
  input "extra" {
    type = any
  }
  output "values" {
    type = map(string)
  }
}
`)
		require.Len(t, decls, 1)
		assert.Equal(t, cty.List(cty.String), decls[0].Inputs[0].Type)
		assert.Equal(t, cty.DynamicPseudoType, decls[0].Inputs[1].Type)
		assert.Equal(t, cty.Map(cty.String), decls[0].Outputs[0].Type)
	})

	t.Run("tool with no declared shapes", func(t *testing.T) {
		decls := loadOne(t, `tool "echo" { name = "Echo" }`)
		require.Len(t, decls, 1)
		assert.Empty(t, decls[0].Inputs)
		assert.Empty(t, decls[0].Outputs)
	})

	t.Run("declarations are sorted by id across files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"b.hcl": &fstest.MapFile{Data: []byte(`tool "zebra" {}`)},
			"a.hcl": &fstest.MapFile{Data: []byte(`tool "aardvark" {}`)},
		}
		decls, err := Load(context.Background(), fsys)
		require.NoError(t, err)
		require.Len(t, decls, 2)
		assert.Equal(t, "aardvark", decls[0].ID)
		assert.Equal(t, "zebra", decls[1].ID)
	})

	t.Run("duplicate tool ids are rejected", func(t *testing.T) {
		fsys := fstest.MapFS{
			"a.hcl": &fstest.MapFile{Data: []byte(`tool "echo" {}`)},
			"b.hcl": &fstest.MapFile{Data: []byte(`tool "echo" {}`)},
		}
		_, err := Load(context.Background(), fsys)
		require.Error(t, err)
		assert.ErrorContains(t, err, `tool "echo" already declared`)
	})

	t.Run("unknown type keyword is rejected", func(t *testing.T) {
		fsys := fstest.MapFS{"a.hcl": &fstest.MapFile{Data: []byte(`
tool "bad" {
  input "x" { type = integer }
}
`)}}
		_, err := Load(context.Background(), fsys)
		require.Error(t, err)
		assert.ErrorContains(t, err, `unknown primitive type "integer"`)
	})

	t.Run("collections of any are rejected", func(t *testing.T) {
		fsys := fstest.MapFS{"a.hcl": &fstest.MapFile{Data: []byte(`
tool "bad" {
  input "x" { type = list(any) }
}
`)}}
		_, err := Load(context.Background(), fsys)
		require.Error(t, err)
		assert.ErrorContains(t, err, "collection types cannot contain type 'any'")
	})

	t.Run("empty filesystem loads nothing", func(t *testing.T) {
		decls, err := Load(context.Background(), fstest.MapFS{})
		require.NoError(t, err)
		assert.Empty(t, decls)
	})
}
