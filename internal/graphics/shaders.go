package graphics

// Animation tags carried in the fourth texture component:
// 1 liquid, 2-3 rain streak, 4 splash, 5-6 lightning, 7-8 snow, 9 cloud,
// 10 leaf.
const worldVertexShader = `#version 410 core
layout(location = 0) in vec4 aPos;
layout(location = 1) in vec4 aNormal;
layout(location = 2) in vec4 aColor;
layout(location = 3) in vec4 aTex;

uniform mat4 uProjection;
uniform mat4 uView;
uniform float uTime;

out vec2 vUV;
out vec4 vColor;
out float vLight;
out float vDepth;
flat out int vAnim;

float hash(vec2 p) {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

void main() {
	vec4 p = aPos;
	int anim = int(aTex.w + 0.5);
	float h = hash(floor(p.xz));
	if (anim == 1) {
		p.y += sin(uTime * 2.0 + p.x + p.z) * 0.05 - 0.1;
	} else if (anim == 2 || anim == 3) {
		p.y -= mod(uTime * 25.0 + h * 25.0, 25.0);
	} else if (anim == 7 || anim == 8) {
		p.y -= mod(uTime * 2.0 + h * 40.0, 40.0);
		p.x += sin(uTime + h * 6.28) * 0.5;
	} else if (anim == 10) {
		p.x += sin(uTime * 1.5 + p.y) * 0.03;
	}

	vec4 eye = uView * p;
	gl_Position = uProjection * eye;
	vUV = aTex.xy;
	vColor = aColor;
	vDepth = -eye.z;
	vAnim = anim;

	vec3 sun = normalize(vec3(0.4, 1.0, 0.3));
	vLight = (0.6 + 0.4 * max(dot(aNormal.xyz, sun), 0.0)) * (0.8 + aTex.z * 0.04);
}
`

const worldFragmentShader = `#version 410 core
in vec2 vUV;
in vec4 vColor;
in float vLight;
in float vDepth;
flat in int vAnim;

uniform sampler2D uAtlas;
uniform vec3 uFog;
uniform float uTime;

out vec4 FragColor;

void main() {
	vec4 c;
	if (vAnim == 9) {
		c = vec4(1.0, 1.0, 1.0, 0.8);
	} else if (vAnim == 5 || vAnim == 6) {
		float flash = step(0.85, fract(sin(floor(uTime * 8.0)) * 43758.5453));
		c = vec4(vColor.rgb, vColor.a * flash);
	} else if (vAnim >= 2 && vAnim <= 8) {
		c = vColor;
	} else {
		c = texture(uAtlas, vUV);
		c.rgb *= vLight;
	}
	if (c.a < 0.05) {
		discard;
	}
	float fog = clamp((vDepth - 80.0) / 120.0, 0.0, 1.0);
	FragColor = vec4(mix(c.rgb, uFog, fog), c.a);
}
`
