package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// MaxLights is the size of the light array in the fragment shader. Lights
// beyond it are ignored for the frame.
const MaxLights = 8

// vertex shader: positions and normals go to view space, the stack top
// being the model-view matrix.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 projection;
uniform mat4 modelview;
uniform mat3 normalmatrix;

out vec3 fragPosition;
out vec3 fragNormal;
out vec2 fragUV;
out vec4 fragColor;

void main() {
    vec4 p = modelview * vec4(inPosition, 1.0);
    fragPosition = p.xyz;
    fragNormal   = normalmatrix * inNormal;
    fragUV       = inUV;
    fragColor    = inColor;
    gl_Position  = projection * p;
}
` + "\x00"

// fragment shader: Phong with point, directional and spot lights given in
// view space.
const fragSrc = `
#version 410 core
#define MAX_LIGHTS 8

struct Material {
    vec3  ambient;
    vec3  diffuse;
    vec3  specular;
    vec3  emission;
    float shininess;
};

struct Light {
    vec3  ambient;
    vec3  diffuse;
    vec3  specular;
    vec4  position;
    vec3  spotDirection;
    float spotCutoff;
};

in vec3 fragPosition;
in vec3 fragNormal;
in vec2 fragUV;
in vec4 fragColor;

uniform Material  material;
uniform Light     light[MAX_LIGHTS];
uniform int       numLights;
uniform bool      textured;
uniform sampler2D image;

out vec4 outColor;

void main() {
    vec3 n = normalize(fragNormal);
    vec3 v = normalize(-fragPosition);
    vec3 color = material.emission;

    for (int i = 0; i < numLights; i++) {
        vec3 l;
        if (light[i].position.w != 0.0) {
            l = normalize(light[i].position.xyz - fragPosition);
        } else {
            l = normalize(light[i].position.xyz);
        }
        float spot = 1.0;
        if (light[i].spotCutoff < 180.0) {
            float c = dot(-l, normalize(light[i].spotDirection));
            spot = c < cos(radians(light[i].spotCutoff)) ? 0.0 : 1.0;
        }
        float nDotL = max(dot(n, l), 0.0);
        vec3  r     = reflect(-l, n);
        float rDotV = nDotL > 0.0 ? pow(max(dot(r, v), 0.0), material.shininess) : 0.0;

        color += material.ambient * light[i].ambient;
        color += spot * material.diffuse * light[i].diffuse * nDotL;
        color += spot * material.specular * light[i].specular * rDotV;
    }

    vec4 base = fragColor;
    if (textured) {
        base *= texture(image, fragUV);
    }
    outColor = vec4(color * base.rgb, base.a);
}
` + "\x00"

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
