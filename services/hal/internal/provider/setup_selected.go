package provider

import "lightmotor-go/services/hal/internal/provider/setups"

// SelectedPlan is the wiring compiled into this image. Host builds simulate
// the same wiring so the lookup table is exercised off-target.
var SelectedPlan = setups.PicoTrafficFan
