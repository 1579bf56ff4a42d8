package hclconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/emucompose/internal/config"
	"github.com/vk/emucompose/internal/validation"
	"github.com/zclconf/go-cty/cty"
)

const labHCL = `
system-unique-id = "lab1"
monorepo-source  = "latest"
opentrons-modules-source = {
  source-type     = "local"
  source-location = "/src/opentrons-modules"
}

robot "otie" {
  hardware        = "ot2"
  emulation-level = "firmware"
  exposed-port    = 5000
  hardware-specific-attributes = {
    left-pipette = "P20 Single"
  }
  robot-server-env-vars = {
    DEBUG = "1"
  }
}

module "hs" {
  hardware        = "heater-shaker-module"
  emulation-level = "hardware"
  hardware-specific-attributes = {
    mode = "stdin"
  }
}

extra-mount {
  container-names = ["otie", "hs"]
  host-path       = "/tmp/data"
  container-path  = "/data"
}
`

func TestParse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("full document", func(t *testing.T) {
		doc, err := NewLoader().Parse(ctx, "lab.hcl", []byte(labHCL))
		require.NoError(t, err)

		assert.Equal(t, "lab1", doc.SystemUniqueID)
		assert.Equal(t, &config.SourceRef{Location: "latest"}, doc.MonorepoSource)
		assert.Equal(t, &config.SourceRef{Type: "local", Location: "/src/opentrons-modules"}, doc.OpentronsModulesSource)
		assert.Nil(t, doc.OT3FirmwareSource)

		require.NotNil(t, doc.Robot)
		assert.Equal(t, "otie", doc.Robot.ID)
		assert.Equal(t, "ot2", doc.Robot.Hardware)
		require.NotNil(t, doc.Robot.ExposedPort)
		assert.Equal(t, 5000, *doc.Robot.ExposedPort)
		assert.Equal(t, map[string]string{"DEBUG": "1"}, doc.Robot.RobotServerEnvVars)
		assert.Equal(t, cty.StringVal("P20 Single"), doc.Robot.HardwareSpecificAttributes.Value.GetAttr("left-pipette"))

		require.Len(t, doc.Modules, 1)
		assert.Equal(t, "hs", doc.Modules[0].ID)
		assert.Equal(t, cty.StringVal("stdin"), doc.Modules[0].HardwareSpecificAttributes.Value.GetAttr("mode"))

		require.Len(t, doc.ExtraMounts, 1)
		assert.Equal(t, []string{"otie", "hs"}, doc.ExtraMounts[0].ContainerNames)
	})

	t.Run("missing attributes stay empty", func(t *testing.T) {
		doc, err := NewLoader().Parse(ctx, "lab.hcl", []byte(`robot "otie" {}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Robot.Hardware)
		assert.True(t, doc.Robot.HardwareSpecificAttributes.IsZero())
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := NewLoader().Parse(ctx, "lab.hcl", []byte(`colour = "blue"`))
		require.Error(t, err)
		assert.True(t, validation.HasKind(err, validation.InputShape))
		assert.Contains(t, err.Error(), "Unsupported argument")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := NewLoader().Parse(ctx, "lab.hcl", []byte(`robot "otie" {`))
		require.Error(t, err)
		assert.True(t, validation.HasKind(err, validation.InputShape))
	})

	t.Run("two robots", func(t *testing.T) {
		_, err := NewLoader().Parse(ctx, "lab.hcl", []byte("robot \"a\" {}\nrobot \"b\" {}\n"))
		require.Error(t, err)
		assert.True(t, validation.HasKind(err, validation.Invariant))
		assert.Contains(t, err.Error(), "exactly one robot")
	})

	t.Run("bad source object", func(t *testing.T) {
		_, err := NewLoader().Parse(ctx, "lab.hcl", []byte(`monorepo-source = { source-path = "/src" }`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported attribute "source-path"`)
	})
}

func TestLoadDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"00-sources.hcl": `monorepo-source = "edge"`,
		"10-robot.hcl":   "robot \"otie\" {\n  hardware = \"ot2\"\n  emulation-level = \"firmware\"\n}\n",
		"20-modules.hcl": "module \"mag\" {\n  hardware = \"magnetic-module\"\n  emulation-level = \"firmware\"\n}\n",
		"README.md":      "not configuration",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	doc, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "edge", doc.MonorepoSource.Location)
	assert.Equal(t, "otie", doc.Robot.ID)
	require.Len(t, doc.Modules, 1)
	assert.Equal(t, "mag", doc.Modules[0].ID)

	t.Run("duplicate top-level attribute", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "30-dup.hcl"), []byte(`monorepo-source = "latest"`), 0o600))
		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, "set in more than one file")
	})
}
