package repositories

import "github.com/satriahrh/arunika/companion/domain/entities"

// RenderingSink is the 3D backend that draws the avatar
type RenderingSink interface {
	SetEmotionAppearance(appearance entities.Appearance)
	ApplyPose(pose entities.Pose)
	RenderFrame()
}
