//go:build ignore

//kage:unit pixels

package main

// Uniform variables.
var Size vec2
var Count float
var Opacity float
var Blend float
var NoiseStrength float
var NoiseFrequency float
var Orbit vec2

// Anchors holds the anchor position in xy and its noise shift in zw.
var Anchors [4]vec4

// Colors holds the sRGB control colors in rgb.
var Colors [4]vec4

func mod289(x int) int {
	return ((x % 289) + 289) % 289
}

func permute289(v int) int {
	return ((34*v + 1) * v) % 289
}

// latticeHash expects p on the integer lattice.
func latticeHash(p vec2) float {
	h := permute289(permute289(mod289(int(p.y))) + mod289(int(p.x)))
	return float(h)*(2.0/289) - 1
}

func valueNoise(p vec2) float {
	i := floor(p)
	f := p - i
	s := f * f * (3 - 2*f)
	a := latticeHash(i)
	b := latticeHash(i + vec2(1, 0))
	c := latticeHash(i + vec2(0, 1))
	d := latticeHash(i + vec2(1, 1))
	return mix(mix(a, b, s.x), mix(c, d, s.x), s.y)
}

func toLinear(s float) float {
	a := abs(s)
	if a <= 0.04045 {
		return sign(s) * a / 12.92
	}
	return sign(s) * pow((a+0.055)/1.055, 2.4)
}

func toSRGB(l float) float {
	a := abs(l)
	if a <= 0.0031308 {
		return sign(l) * a * 12.92
	}
	return sign(l) * (1.055*pow(a, 1/2.4) - 0.055)
}

func toWorking(c vec3) vec3 {
	if Blend > 0.5 {
		return vec3(toLinear(c.r), toLinear(c.g), toLinear(c.b))
	}
	return c
}

func fromWorking(c vec3) vec3 {
	if Blend > 0.5 {
		return vec3(toSRGB(c.r), toSRGB(c.g), toSRGB(c.b))
	}
	return c
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := srcPos / Size

	var weights [4]float
	total := 0.0
	for i := 0; i < 4; i++ {
		if float(i) < Count {
			a := Anchors[i]
			d := uv - a.xy
			w := 1 / (dot(d, d) + 1e-5)
			if NoiseStrength > 0 {
				w *= 1 + NoiseStrength*valueNoise(uv*NoiseFrequency+Orbit+a.zw)
			}
			weights[i] = w
			total += w
		}
	}

	sum := vec3(0)
	for i := 0; i < 4; i++ {
		if float(i) < Count {
			w := 1 / Count
			if total > 0 {
				w = weights[i] / total
			}
			sum += w * toWorking(Colors[i].rgb)
		}
	}

	rgb := clamp(fromWorking(sum), 0, 1)
	alpha := clamp(Opacity, 0, 1)
	return vec4(rgb*alpha, alpha)
}
