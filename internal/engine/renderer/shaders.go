package renderer

const litVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform mat4 uLightVP;

out vec3 vNormal;
out vec3 vColor;
out vec4 vLightPos;
out float vViewDepth;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 view = uView * world;
    vNormal = mat3(uModel) * aNormal;
    vColor = aColor;
    vLightPos = uLightVP * world;
    vViewDepth = -view.z;
    gl_Position = uProj * view;
}
`

const litFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vColor;
in vec4 vLightPos;
in float vViewDepth;

uniform vec3 uTint;
uniform vec3 uEmissive;
uniform float uEmissiveIntensity;
uniform float uOpacity;
uniform bool uUnlit;

uniform vec3 uSkyColor;
uniform vec3 uGroundColor;
uniform float uHemiIntensity;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform float uSunIntensity;

uniform vec3 uFogColor;
uniform float uFogNear;
uniform float uFogFar;

uniform bool uShadows;
uniform bool uReceiveShadow;
uniform sampler2DShadow uShadowMap;

out vec4 FragColor;

float shadowFactor(vec3 n) {
    if (!uShadows || !uReceiveShadow) {
        return 1.0;
    }
    vec3 p = vLightPos.xyz / vLightPos.w * 0.5 + 0.5;
    if (p.z > 1.0) {
        return 1.0;
    }
    float bias = max(0.0025 * (1.0 - dot(n, uSunDir)), 0.0005);
    vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            lit += texture(uShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z - bias));
        }
    }
    return lit / 9.0;
}

void main() {
    vec3 albedo = vColor * uTint;
    vec3 color = albedo;
    if (!uUnlit) {
        vec3 n = normalize(vNormal);
        vec3 hemi = mix(uGroundColor, uSkyColor, n.y * 0.5 + 0.5) * uHemiIntensity;
        float diffuse = max(dot(n, uSunDir), 0.0);
        vec3 sun = uSunColor * uSunIntensity * diffuse * shadowFactor(n);
        color = albedo * (hemi + sun) + uEmissive * uEmissiveIntensity;
    }
    float fog = smoothstep(uFogNear, uFogFar, vViewDepth);
    FragColor = vec4(mix(color, uFogColor, fog), uOpacity);
}
`

const depthVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uLightVP;
uniform mat4 uModel;

void main() {
    gl_Position = uLightVP * uModel * vec4(aPos, 1.0);
}
`

const depthFragmentShader = `
#version 410 core

void main() {
}
`

// The overlay quad is generated from gl_VertexID.
const overlayVertexShader = `
#version 410 core

out vec2 vUV;

void main() {
    vec2 corners[4] = vec2[](vec2(-1, -1), vec2(1, -1), vec2(-1, 1), vec2(1, 1));
    vec2 p = corners[gl_VertexID];
    vUV = p * 0.5 + 0.5;
    gl_Position = vec4(p, 0.0, 1.0);
}
`

const overlayFragmentShader = `
#version 410 core

in vec2 vUV;

uniform vec4 uBackground;
uniform vec3 uBarColor;
uniform float uProgress;
uniform float uAspect;

out vec4 FragColor;

void main() {
    vec2 ext = vec2(0.18, 0.008 * uAspect);
    vec2 d = abs(vUV - vec2(0.5, 0.42));
    if (d.x <= ext.x && d.y <= ext.y) {
        float fill = (vUV.x - (0.5 - ext.x)) / (2.0 * ext.x);
        vec3 c = fill <= uProgress ? uBarColor : uBarColor * 0.25;
        FragColor = vec4(c, 1.0);
        return;
    }
    FragColor = uBackground;
}
`
