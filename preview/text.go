package preview

// UI Text Constants
const (
	TextNoPlans      = "No timers to preview"
	TextFooter       = "space pause | r restart | n/b next/prev | +/- speed | q quit"
	TextFooterPaused = "⏸  PAUSED | space resume | q quit"
	TextFinished     = "Finished! r replay | n next | q quit"
)
