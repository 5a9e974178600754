package service

import "packsmith/types"

// DetermineModSide infers where a mod has to be installed from the side metadata reported
// by the platform. Only Modrinth reports per-side support; anything it cannot classify
// falls back to both.
func DetermineModSide(platform types.Platform, clientSide, serverSide string) types.Side {
	if platform != types.PlatformModrinth {
		return types.SideBoth
	}

	switch {
	case clientSide == "required" && serverSide == "unsupported":
		return types.SideClient
	case serverSide == "required" && clientSide == "unsupported":
		return types.SideServer
	default:
		return types.SideBoth
	}
}

// RequiresSideSelection reports whether the user has to pick a side before the mod can be
// added, which is the case for Modrinth mods that are optional on either side.
func RequiresSideSelection(platform types.Platform, clientSide, serverSide string) bool {
	return platform == types.PlatformModrinth &&
		(clientSide == "optional" || serverSide == "optional")
}
