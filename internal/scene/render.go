package scene

import (
	"cmp"
	"math"
	"slices"

	"scanraster/internal/mathutil"
	"scanraster/internal/raster"
)

// Stats counts what happened to a scene's faces in one Render.
type Stats struct {
	Faces       int
	Submitted   int
	BackFaces   int
	NearClipped int
	// Invalid faces had collinear texture coordinates.
	Invalid int
}

// item is one projected face waiting for back-to-front submission.
type item struct {
	depth   float64
	overlay bool
	alpha   int
	shading Shading
	v       [3]raster.Vertex
	ts      raster.TextureSpace
	texture int
}

// Render clears the context's buffers to the scene background, draws every
// face far to near and runs the fog pass. fog applies when the scene has no
// Fog of its own; a fog with End <= 0 disables the pass.
func Render(c *raster.Context, s *Scene, fog Fog) Stats {
	var st Stats

	camRot := mathutil.EulerDeg(s.Camera.Rotation[0], s.Camera.Rotation[1], s.Camera.Rotation[2])
	inv := camRot.Transpose()
	view := mathutil.FromMat3Translation(inv, inv.MulVec3(s.Camera.Position).Scale(-1))

	light := DefaultLight()
	if s.Light != nil {
		light = *s.Light
	}
	light.Direction = view.MulDir(light.Direction)

	cx, cy := c.Center()
	focal := float64(c.Options().FocalLength)
	project := func(p mathutil.Vec3, col int32) raster.Vertex {
		return raster.Vertex{
			X:     cx + int(math.Round(p[0]*focal/p[2])),
			Y:     cy + int(math.Round(p[1]*focal/p[2])),
			Z:     float32(p[2]),
			Color: col,
		}
	}

	var items []item
	for _, m := range s.Meshes {
		st.Faces += len(m.Faces)
		rot := mathutil.Mat3Mul(mathutil.EulerDeg(m.Rotation[0], m.Rotation[1], m.Rotation[2]), mathutil.Mat3Scale(m.Scale))
		mv := mathutil.Mat4Mul(view, mathutil.FromMat3Translation(rot, m.Position))

		cam := make([]mathutil.Vec3, len(m.Vertices))
		for i, v := range m.Vertices {
			cam[i] = mv.MulPoint(v)
		}
		normals := vertexNormals(cam, m.Faces)

		for _, f := range m.Faces {
			p := [3]mathutil.Vec3{cam[f.V[0]], cam[f.V[1]], cam[f.V[2]]}
			if p[0][2] < s.Camera.Near || p[1][2] < s.Camera.Near || p[2][2] < s.Camera.Near {
				st.NearClipped++
				continue
			}
			fn := mathutil.Normal(p[0], p[1], p[2])
			if m.CullBackFaces && fn.Dot(p[0]) > 0 {
				st.BackFaces++
				continue
			}

			it := item{
				depth:   (p[0][2] + p[1][2] + p[2][2]) / 3,
				overlay: m.Overlay,
				alpha:   m.Alpha,
				shading: f.Shading,
				texture: f.Texture,
			}
			switch f.Shading {
			case Flat:
				col := int32(shadeRGB(uint32(f.Color), light.Shade(fn)))
				for i := range p {
					it.v[i] = project(p[i], col)
				}
			case Gouraud:
				for i := range p {
					it.v[i] = project(p[i], shadeKey(uint32(f.Color), light.Shade(normals[f.V[i]])))
				}
			case Textured:
				ts, ok := raster.TextureSpaceFromUV(p, f.UV)
				if !ok {
					st.Invalid++
					continue
				}
				it.ts = ts
				for i := range p {
					it.v[i] = project(p[i], lightness(light.Shade(normals[f.V[i]])))
				}
			}
			items = append(items, it)
		}
	}

	slices.SortStableFunc(items, func(a, b item) int {
		if a.overlay != b.overlay {
			if a.overlay {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.depth, a.depth)
	})

	c.SetSkyColor(uint32(s.Background))
	c.Clear(uint32(s.Background))
	for _, it := range items {
		c.SaveDepth = !it.overlay
		c.Alpha = it.alpha
		switch it.shading {
		case Flat:
			c.DrawFlatTriangle(it.v[0], it.v[1], it.v[2])
		case Gouraud:
			c.DrawGouraudTriangle(it.v[0], it.v[1], it.v[2])
		case Textured:
			c.DrawTexturedTriangle(it.v[0], it.v[1], it.v[2], it.ts, it.texture)
		}
		st.Submitted++
	}
	c.SaveDepth = true
	c.Alpha = 0

	if s.Fog != nil {
		fog = *s.Fog
	}
	if fog.End > 0 {
		c.DrawFog(uint32(fog.Color), fog.Begin, fog.End)
	}
	return st
}

// vertexNormals averages the normals of the faces around each vertex.
func vertexNormals(cam []mathutil.Vec3, faces []Face) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(cam))
	for _, f := range faces {
		n := mathutil.Normal(cam[f.V[0]], cam[f.V[1]], cam[f.V[2]])
		for _, v := range f.V {
			out[v] = out[v].Add(n)
		}
	}
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out
}
