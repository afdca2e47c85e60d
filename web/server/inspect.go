package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"` // Position in the scene's object list, -1 on a miss
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Material     map[string]interface{} `json:"material"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first object a pixel's ray hits
type InspectResult struct {
	Hit    geometry.HitInfo
	Index  int
	Object geometry.Primitive
}

// inspectPixel casts the ray through pixel (x, y) and returns the closest object it hits
func inspectPixel(s *scene.Scene, x, y int) InspectResult {
	ray := s.Camera.RayThroughPixel(x, y, 0)
	hit, index := integrator.ClosestHitIndex(ray, s.Objects)
	result := InspectResult{Hit: hit, Index: index}
	if index >= 0 {
		result.Object = s.Objects[index]
	}
	return result
}

// handleInspect reports what the ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	if err := checkSceneName(sceneName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loaded, err := loaders.Resolve(sceneName, s.scenesDir)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	camera := loaded.Scene.Camera

	x, errX := strconv.Atoi(query.Get("x"))
	y, errY := strconv.Atoi(query.Get("y"))
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y must be integers")
		return
	}
	if x < 0 || x >= camera.Width || y < 0 || y >= camera.Height {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("pixel (%d, %d) outside %dx%d image", x, y, camera.Width, camera.Height))
		return
	}

	result := inspectPixel(loaded.Scene, x, y)
	if !result.Hit.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{ObjectIndex: -1})
		return
	}

	geometryType, properties := describeObject(result.Object)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ObjectIndex:  result.Index,
		GeometryType: geometryType,
		Point:        toArray(result.Hit.Point),
		Normal:       toArray(result.Hit.Normal),
		Distance:     result.Hit.T,
		Material:     describeMaterial(result.Hit.Material),
		Properties:   properties,
	})
}

func describeObject(obj geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	switch o := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(o.Center)
		properties["radius"] = o.Radius
		return "sphere", properties
	case *geometry.Plane:
		properties["point"] = toArray(o.Point)
		properties["normal"] = toArray(o.Normal)
		return "plane", properties
	}
	return "unknown", properties
}

func describeMaterial(m *material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"color":               []float64(m.Color),
		"specularProbability": m.SpecularProbability,
		"emits":               m.Emits,
	}
	if len(m.Color) >= 3 {
		properties["hex"] = fmt.Sprintf("#%02x%02x%02x",
			int(m.Color[0]*255), int(m.Color[1]*255), int(m.Color[2]*255))
	}
	if m.Emits {
		properties["emission"] = []float64(m.Emission())
	}
	return properties
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
