package main

import (
	"math"

	"github.com/koteyur/ccd2d/scene"
)

func ptr(v float64) *float64 { return &v }

// builtinScene returns two crossed floors tilted by 3 degrees between two
// walls, with three circles of different bounciness above them.
func builtinScene() *scene.Scene {
	gravity := scene.Vec{0, -490}
	tilt := math.Tan(3*math.Pi/180) * screenWidth * 1.3 / 2
	floorY := screenHeight * 0.1
	left, right := screenWidth*-0.15, screenWidth*1.15
	bouncy := scene.Common{Bounciness: ptr(1)}

	return &scene.Scene{
		Name:    "builtin",
		Physics: scene.Physics{Gravity: &gravity, SimulationSteps: 2},
		Lines: []scene.Line{
			{Common: scene.Common{Name: "left wall"}, Point: scene.Vec{0, 0}, Normal: scene.Vec{1, 0}},
			{Common: scene.Common{Name: "right wall"}, Point: scene.Vec{screenWidth, 0}, Normal: scene.Vec{-1, 0}},
		},
		Segments: []scene.Segment{
			{Common: bouncy, A: scene.Vec{left, floorY + tilt}, B: scene.Vec{right, floorY - tilt}},
			{Common: bouncy, A: scene.Vec{left, floorY - tilt}, B: scene.Vec{right, floorY + tilt}},
		},
		Bodies: []scene.Body{
			{
				Common:   scene.Common{Name: "small", Bounciness: ptr(0.5)},
				Position: scene.Vec{screenWidth * 0.10, screenHeight * 0.9},
				Radius:   screenWidth * 0.02,
			},
			{
				Common:   scene.Common{Name: "large", Bounciness: ptr(0.3)},
				Position: scene.Vec{screenWidth * 0.90, screenHeight * 0.8},
				Radius:   screenWidth * 0.03,
			},
			{
				Common:   scene.Common{Name: "tiny", Bounciness: ptr(1)},
				Position: scene.Vec{screenWidth * 0.50, screenHeight * 0.95},
				Radius:   screenWidth * 0.015,
			},
		},
	}
}
