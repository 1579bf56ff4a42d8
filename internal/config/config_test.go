package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/emucompose/internal/validation"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

func TestSourceRefUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("scalar form", func(t *testing.T) {
		var ref SourceRef
		require.NoError(t, yaml.Unmarshal([]byte(`latest`), &ref))
		assert.Equal(t, SourceRef{Location: "latest"}, ref)
	})

	t.Run("mapping form", func(t *testing.T) {
		var ref SourceRef
		require.NoError(t, yaml.Unmarshal([]byte("source-type: local\nsource-location: /src/opentrons\n"), &ref))
		assert.Equal(t, SourceRef{Type: "local", Location: "/src/opentrons"}, ref)
	})

	t.Run("unknown key in mapping form", func(t *testing.T) {
		var ref SourceRef
		err := yaml.Unmarshal([]byte("source-type: local\nsource-path: /src\n"), &ref)
		var typeErr *yaml.TypeError
		require.ErrorAs(t, err, &typeErr)
		assert.ErrorContains(t, err, "field source-path not found")
		assert.Equal(t, "local", ref.Type, "known keys are still decoded")
	})

	t.Run("sequence is rejected", func(t *testing.T) {
		var ref SourceRef
		err := yaml.Unmarshal([]byte("[a, b]"), &ref)
		assert.ErrorContains(t, err, "must be a string or a mapping")
	})
}

func TestAttributesUnmarshal(t *testing.T) {
	t.Parallel()

	var m Module
	src := `
id: hs
hardware: heater-shaker-module
emulation-level: hardware
hardware-specific-attributes:
  mode: stdin
  temperature:
    starting: 30
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	require.False(t, m.HardwareSpecificAttributes.IsZero())

	v := m.HardwareSpecificAttributes.Value
	assert.True(t, v.Type().IsObjectType())
	assert.Equal(t, cty.StringVal("stdin"), v.GetAttr("mode"))
	assert.True(t, v.GetAttr("temperature").GetAttr("starting").RawEquals(cty.NumberIntVal(30)))

	var bare Module
	require.NoError(t, yaml.Unmarshal([]byte("id: mag\n"), &bare))
	assert.True(t, bare.HardwareSpecificAttributes.IsZero())
}

func TestParseSubstitution(t *testing.T) {
	t.Parallel()

	sub, err := ParseSubstitution("otie, source-location , /src/a,b")
	require.NoError(t, err)
	assert.Equal(t, Substitution{ServiceID: "otie", Field: "source-location", Value: "/src/a,b"}, sub)

	_, err = ParseSubstitution("otie,source-location")
	assert.Error(t, err)

	subs, err := ParseSubstitutionList(`[["otie", "source-location", "latest"],\n ["hs", "emulation-level", "firmware"]]`)
	require.NoError(t, err)
	assert.Equal(t, []Substitution{
		{ServiceID: "otie", Field: "source-location", Value: "latest"},
		{ServiceID: "hs", Field: "emulation-level", Value: "firmware"},
	}, subs)

	_, err = ParseSubstitutionList(`[["otie", "source-location"]]`)
	assert.ErrorContains(t, err, "exactly 3 elements")
}

func TestDocumentApply(t *testing.T) {
	t.Parallel()

	newDoc := func() *Document {
		return &Document{
			Robot:   &Robot{ID: "otie", Hardware: "ot2", EmulationLevel: "firmware"},
			Modules: []*Module{{ID: "hs", Hardware: "heater-shaker-module", EmulationLevel: "hardware"}},
		}
	}

	t.Run("robot and module fields", func(t *testing.T) {
		doc := newDoc()
		err := doc.Apply(
			Substitution{ServiceID: "otie", Field: "source-location", Value: "/src/opentrons"},
			Substitution{ServiceID: "otie", Field: "exposed-port", Value: "5000"},
			Substitution{ServiceID: "hs", Field: "emulation-level", Value: "firmware"},
		)
		require.NoError(t, err)
		assert.Equal(t, "/src/opentrons", doc.Robot.SourceLocation)
		require.NotNil(t, doc.Robot.ExposedPort)
		assert.Equal(t, 5000, *doc.Robot.ExposedPort)
		assert.Equal(t, "firmware", doc.Modules[0].EmulationLevel)
	})

	t.Run("every failure is reported", func(t *testing.T) {
		doc := newDoc()
		err := doc.Apply(
			Substitution{ServiceID: "ghost", Field: "source-location", Value: "latest"},
			Substitution{ServiceID: "hs", Field: "exposed-port", Value: "1"},
			Substitution{ServiceID: "otie", Field: "exposed-port", Value: "http"},
		)
		require.Error(t, err)
		assert.Equal(t, []validation.Kind{validation.InputShape, validation.InputShape, validation.InputShape}, validation.Kinds(err))
		assert.Contains(t, err.Error(), `no robot or module with id "ghost"`)
	})
}
