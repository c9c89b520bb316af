/*
NAME
  clipfile.go

DESCRIPTION
  clipfile.go reads and writes the `.acl.sjson` clip-file format:
  a clip header, a skeleton's bones, and one track block per bone,
  consumed by cmd/aclc's -acl flag.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sjson

import (
	"github.com/ausocean/acl/clip"
	"github.com/ausocean/acl/errclass"
	aclmath "github.com/ausocean/acl/math"
	"github.com/ausocean/acl/skeleton"
)

// ReadClip parses buf as an `.acl.sjson` document:
//
//	clip = { name = "..." num_samples = N sample_rate = R error_threshold = E }
//	bones = [ { name = "..." parent = -1 vertex_distance = V
//	            bind_rotation = [x, y, z, w] bind_translation = [x, y, z] } ... ]
//	tracks = [ { rotations = [[x,y,z,w], ...] translations = [[x,y,z], ...]
//	             scales = [[x,y,z], ...] } ... ]
//
// rotations/translations/scales may each be absent (a default track)
// or hold exactly one sample (a constant track); ReadClip does not
// itself decide default-vs-constant-vs-animated, it only stages
// whatever length was written, same as clip.AnimationClip.Validate
// allows.
func ReadClip(buf []byte) (*clip.AnimationClip, error) {
	r := NewReader(buf)

	if err := r.NamedObjectBegins("clip"); err != nil {
		return nil, err
	}
	name, err := r.String("name")
	if err != nil {
		return nil, err
	}
	numSamples, err := r.Int("num_samples")
	if err != nil {
		return nil, err
	}
	sampleRate, err := r.Int("sample_rate")
	if err != nil {
		return nil, err
	}
	errThreshold := r.TryFloat("error_threshold", 0)
	if err := r.ObjectEnds(); err != nil {
		return nil, err
	}

	bones, err := readBones(r)
	if err != nil {
		return nil, err
	}

	tracks, err := readTracks(r)
	if err != nil {
		return nil, err
	}
	if len(tracks) != len(bones) {
		return nil, errclass.Errorf(errclass.InvalidFormat, "sjson: %d bones but %d track blocks", len(bones), len(tracks))
	}

	if err := r.Remainder(); err != nil {
		return nil, err
	}

	return &clip.AnimationClip{
		Skeleton:       &skeleton.Skeleton{Bones: bones},
		Name:           name,
		NumSamples:     int(numSamples),
		SampleRate:     int(sampleRate),
		ErrorThreshold: errThreshold,
		Bones:          tracks,
	}, nil
}

func readBones(r *Reader) ([]skeleton.Bone, error) {
	if err := r.NamedArrayBegins("bones"); err != nil {
		return nil, err
	}
	var bones []skeleton.Bone
	for {
		s := r.save()
		if r.ArrayEnds() == nil {
			break
		}
		r.restore(s)

		if err := r.ObjectBegins(); err != nil {
			return nil, err
		}
		bname, err := r.String("name")
		if err != nil {
			return nil, err
		}
		parent, err := r.Int("parent")
		if err != nil {
			return nil, err
		}
		vertexDistance := r.TryFloat("vertex_distance", 0)
		rot, err := r.FloatArray("bind_rotation", 4)
		if err != nil {
			return nil, err
		}
		trans, err := r.FloatArray("bind_translation", 3)
		if err != nil {
			return nil, err
		}
		if err := r.ObjectEnds(); err != nil {
			return nil, err
		}

		bones = append(bones, skeleton.Bone{
			Name:            bname,
			ParentIndex:     int(parent),
			BindRotation:    aclmath.Quaternion{Imag: rot[0], Jmag: rot[1], Kmag: rot[2], Real: rot[3]},
			BindTranslation: aclmath.Vector3{X: trans[0], Y: trans[1], Z: trans[2]},
			VertexDistance:  vertexDistance,
		})
		r.TryComma()
	}
	return bones, nil
}

func readTracks(r *Reader) ([]clip.BoneTracks, error) {
	if err := r.NamedArrayBegins("tracks"); err != nil {
		return nil, err
	}
	var tracks []clip.BoneTracks
	for {
		s := r.save()
		if r.ArrayEnds() == nil {
			break
		}
		r.restore(s)

		if err := r.ObjectBegins(); err != nil {
			return nil, err
		}
		rotations := r.TryFloatArrayList("rotations", 4)
		translations := r.TryFloatArrayList("translations", 3)
		scales := r.TryFloatArrayList("scales", 3)
		if err := r.ObjectEnds(); err != nil {
			return nil, err
		}

		tracks = append(tracks, clip.BoneTracks{
			Rotation:    clip.Track{Rotations: toQuaternions(rotations)},
			Translation: clip.Track{Vectors: toVectors(translations)},
			Scale:       clip.Track{Vectors: toVectors(scales)},
		})
		r.TryComma()
	}
	return tracks, nil
}

func toQuaternions(rows [][]float64) []aclmath.Quaternion {
	if rows == nil {
		return nil
	}
	out := make([]aclmath.Quaternion, len(rows))
	for i, row := range rows {
		out[i] = aclmath.Quaternion{Imag: row[0], Jmag: row[1], Kmag: row[2], Real: row[3]}
	}
	return out
}

func toVectors(rows [][]float64) []aclmath.Vector3 {
	if rows == nil {
		return nil
	}
	out := make([]aclmath.Vector3, len(rows))
	for i, row := range rows {
		out[i] = aclmath.Vector3{X: row[0], Y: row[1], Z: row[2]}
	}
	return out
}

// WriteClip serializes c as an `.acl.sjson` document in the layout
// ReadClip parses.
func WriteClip(c *clip.AnimationClip) []byte {
	w := NewWriter()

	w.Object("clip", func(w *Writer) {
		w.String("name", c.Name)
		w.Int("num_samples", int64(c.NumSamples))
		w.Int("sample_rate", int64(c.SampleRate))
		w.Float("error_threshold", c.ErrorThreshold)
	})

	w.Array("bones", func(w *Writer) {
		for _, b := range c.Skeleton.Bones {
			w.ArrayObject(func(w *Writer) {
				w.String("name", b.Name)
				w.Int("parent", int64(b.ParentIndex))
				w.Float("vertex_distance", b.VertexDistance)
				w.FloatArray("bind_rotation", []float64{b.BindRotation.Imag, b.BindRotation.Jmag, b.BindRotation.Kmag, b.BindRotation.Real})
				w.FloatArray("bind_translation", []float64{b.BindTranslation.X, b.BindTranslation.Y, b.BindTranslation.Z})
			})
		}
	})

	w.Array("tracks", func(w *Writer) {
		for _, bt := range c.Bones {
			w.ArrayObject(func(w *Writer) {
				writeQuaternionList(w, "rotations", bt.Rotation.Rotations)
				writeVectorList(w, "translations", bt.Translation.Vectors)
				writeVectorList(w, "scales", bt.Scale.Vectors)
			})
		}
	})

	return w.Bytes()
}

func writeQuaternionList(w *Writer, key string, qs []aclmath.Quaternion) {
	if len(qs) == 0 {
		return
	}
	w.Array(key, func(w *Writer) {
		for _, q := range qs {
			w.FloatArrayItem([]float64{q.Imag, q.Jmag, q.Kmag, q.Real})
		}
	})
}

func writeVectorList(w *Writer, key string, vs []aclmath.Vector3) {
	if len(vs) == 0 {
		return
	}
	w.Array(key, func(w *Writer) {
		for _, v := range vs {
			w.FloatArrayItem([]float64{v.X, v.Y, v.Z})
		}
	})
}
