package engine

import "github.com/spaghettifunk/abyss/engine/scripting"

// Game pairs the configuration with the gameplay hooks the engine drives.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Hooks             scripting.Hooks
}
