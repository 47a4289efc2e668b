package entities

// Appearance holds the emotion-driven rendering parameters
type Appearance struct {
	EyeScale    float64 `json:"eye_scale"`
	MouthHeight float64 `json:"mouth_height"`
	HeadColor   uint32  `json:"head_color"`
}

// Pose holds the animation-driven transform parameters of one frame.
// Rotations are in radians, offsets in scene units.
type Pose struct {
	BodyOffsetY       float64 `json:"body_offset_y"`
	BodyRotationY     float64 `json:"body_rotation_y"`
	HeadRotationX     float64 `json:"head_rotation_x"`
	HeadRotationY     float64 `json:"head_rotation_y"`
	RightArmRotationX float64 `json:"right_arm_rotation_x"`
	RightArmRotationZ float64 `json:"right_arm_rotation_z"`
	LeftEyeX          float64 `json:"left_eye_x"`
	RightEyeX         float64 `json:"right_eye_x"`
}

// RestPose is the pose every frame starts from before layers are applied
func RestPose() Pose {
	return Pose{
		LeftEyeX:  -0.15,
		RightEyeX: 0.15,
	}
}
