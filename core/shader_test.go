package core

import (
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/packr"
)

func TestClassifyShaderName(t *testing.T) {
	c := qt.New(t)

	c.Check(classifyShaderName("triangle.vert.spv"), qt.Equals, VertexShaderType)
	c.Check(classifyShaderName("triangle.frag.spv"), qt.Equals, FragmentShaderType)
	c.Check(classifyShaderName("triangle.geom.spv"), qt.Equals, UnknownShaderType)
	c.Check(classifyShaderName("orphan.spv"), qt.Equals, UnknownShaderType)
	c.Check(classifyShaderName("triangle.vert"), qt.Equals, UnknownShaderType)
	c.Check(classifyShaderName("a.b.vert.spv"), qt.Equals, UnknownShaderType)
}

func TestShaderSourcesSkipsNonShaders(t *testing.T) {
	c := qt.New(t)

	box := packr.NewBox("./testdata")
	names, types, err := ShaderSources(box)
	c.Assert(err, qt.IsNil)
	c.Assert(names, qt.HasLen, 2)
	c.Assert(types, qt.HasLen, 2)

	byName := map[string]ShaderType{}
	for i, name := range names {
		byName[name] = types[i]
	}
	c.Check(byName["triangle.vert.spv"], qt.Equals, VertexShaderType)
	c.Check(byName["triangle.frag.spv"], qt.Equals, FragmentShaderType)

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	c.Check(sorted, qt.DeepEquals, []string{"triangle.frag.spv", "triangle.vert.spv"})
}
