package motivation

var fallbackPools = map[Stage][]string{
	StageCompleted: {
		"👑 Dominance achieved.",
		"🏆 Flawless finish. Champion.",
		"🚀 Goal obliterated.",
		"🎯 Masterclass delivered.",
	},
	StageNearCompletion: {
		"Final stretch! 🏁",
		"Almost flawless! 💎",
		"Endgame mode! ⚡",
		"Victory imminent! 🌟",
	},
	StageGoodProgress: {
		"In the zone! 🎯",
		"Riding waves! 🌊",
		"Electric progress! ⚡",
		"Firing on all cylinders! 🔥",
	},
	StageJustStarted: {
		"Launch sequence! 🚀",
		"First sparks! ⚡",
		"Ignition complete! 🔥",
		"Systems go! 💫",
	},
}

// Fallback picks a static line for the request's stage. The choice depends
// only on the completed count so repeated failures stay stable.
func Fallback(r Request) string {
	pool := fallbackPools[r.Stage()]
	return pool[r.Progress.Completed%len(pool)]
}
