package core

import (
	"fmt"
	"strings"

	"github.com/gobuffalo/packr"
	vk "github.com/vulkan-go/vulkan"
)

const shaderSuffix = ".spv"

// classifyShaderName derives the shader's pipeline stage from its file
// name. The convention is name.stage.spv, anything else is unknown.
func classifyShaderName(name string) ShaderType {
	if !strings.HasSuffix(name, shaderSuffix) {
		return UnknownShaderType
	}
	nodes := strings.Split(strings.TrimSuffix(name, shaderSuffix), ".")
	if len(nodes) != 2 {
		return UnknownShaderType
	}
	switch nodes[1] {
	case "vert":
		return VertexShaderType
	case "frag":
		return FragmentShaderType
	default:
		return UnknownShaderType
	}
}

// ShaderSources lists the compiled shaders bundled in the given box.
// Only files following the name.stage.spv convention are returned,
// everything else in the box is skipped.
func ShaderSources(box packr.Box) ([]string, []ShaderType, error) {
	var (
		shaders     []string
		shaderTypes []ShaderType
	)
	for _, name := range box.List() {
		shaderType := classifyShaderName(name)
		if shaderType == UnknownShaderType {
			continue
		}
		shaders = append(shaders, name)
		shaderTypes = append(shaderTypes, shaderType)
	}
	return shaders, shaderTypes, nil
}

// NewVulkanShader creates a Vulkan specific shader wrapper
func NewVulkanShader(name string, shaderType ShaderType, contents []byte, logicalDevice vk.Device) (Shader, error) {
	shaderName := strings.Split(name, ".")[0]

	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(contents)),
		PCode:    SliceUint32(contents),
	}

	var shader vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(logicalDevice, &smci, nil, &shader)); err != nil {
		return nil, fmt.Errorf("vk.CreateShaderModule(type %d): %s", shaderType, err.Error())
	}

	return &VulkanShader{
		shader:           shader,
		shaderType:       shaderType,
		shaderContents:   contents,
		shaderCreateInfo: smci,
		name:             shaderName,
		device:           logicalDevice,
	}, nil
}

// VulkanShader is a Vulkan specific shader
type VulkanShader struct {
	name             string
	shaderType       ShaderType
	device           vk.Device
	shader           vk.ShaderModule
	shaderContents   []byte
	shaderCreateInfo vk.ShaderModuleCreateInfo
}

// Type implements interface
func (v VulkanShader) Type() ShaderType {
	return v.shaderType
}

// ShaderModule is an accssor to the internal vk.ShaderModule
func (v VulkanShader) ShaderModule() interface{} {
	return v.shader
}

// Name implements interface
func (v VulkanShader) Name() string {
	return v.name
}

// Destroy implements interface
func (v VulkanShader) Destroy() {
	vk.DestroyShaderModule(v.device, v.shader, nil)
}
