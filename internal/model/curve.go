// Package model defines the core animation curve data types.
package model

import (
	"fmt"
	"strings"
)

// TangentType is the interpolation mode on one side of a keyframe.
type TangentType string

const (
	TangentFixed    TangentType = "fixed"
	TangentLinear   TangentType = "linear"
	TangentFlat     TangentType = "flat"
	TangentStep     TangentType = "step"
	TangentStepNext TangentType = "stepnext"
	TangentSpline   TangentType = "spline"
	TangentClamped  TangentType = "clamped"
)

// ValidTangentTypes are the allowed tangent types.
var ValidTangentTypes = map[TangentType]bool{
	TangentFixed:    true,
	TangentLinear:   true,
	TangentFlat:     true,
	TangentStep:     true,
	TangentStepNext: true,
	TangentSpline:   true,
	TangentClamped:  true,
}

// Keyframe is one sample point on a curve.
type Keyframe struct {
	Time           float64     `json:"time" msgpack:"t"`
	Value          float64     `json:"value" msgpack:"v"`
	InType         TangentType `json:"in_type" msgpack:"it"`
	OutType        TangentType `json:"out_type" msgpack:"ot"`
	InX            float64     `json:"in_x" msgpack:"ix"`
	InY            float64     `json:"in_y" msgpack:"iy"`
	OutX           float64     `json:"out_x" msgpack:"ox"`
	OutY           float64     `json:"out_y" msgpack:"oy"`
	TangentsLocked bool        `json:"tangents_locked" msgpack:"tl"`
	WeightLocked   bool        `json:"weight_locked" msgpack:"wl"`
}

// CurveID identifies a curve by its owning object and attribute.
type CurveID struct {
	Object string `json:"object"`
	Attr   string `json:"attr"`
}

func (id CurveID) String() string {
	return id.Object + "." + id.Attr
}

// ParseCurveID splits "object.attr" at the last dot. Object names may
// themselves contain dots or DAG separators.
func ParseCurveID(name string) (CurveID, error) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return CurveID{}, fmt.Errorf("invalid curve name %q (want object.attr)", name)
	}
	return CurveID{Object: name[:i], Attr: name[i+1:]}, nil
}

// CachedCurve is a captured copy of a curve's full keyframe state.
type CachedCurve struct {
	ID       CurveID    `json:"id"`
	Weighted bool       `json:"weighted"`
	Keys     []Keyframe `json:"keys"`
}

// CurveData is the serialized form of a curve, used by import and export.
type CurveData struct {
	Object   string     `json:"object"`
	Attr     string     `json:"attr"`
	Weighted bool       `json:"weighted"`
	Keys     []Keyframe `json:"keys"`
}

// ID returns the identity of the serialized curve.
func (d CurveData) ID() CurveID {
	return CurveID{Object: d.Object, Attr: d.Attr}
}
