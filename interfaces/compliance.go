package interfaces

import (
	"no-homers/services"
)

// Interface compliance checks - these will fail to compile if services don't implement interfaces
var (
	_ PickService    = (*services.PickService)(nil)
	_ LinesService   = (*services.LinesService)(nil)
	_ ScoringService = (*services.ScoringService)(nil)
	_ LineImporter   = (*services.LineImporter)(nil)
	_ AuthService    = (*services.AuthService)(nil)
	_ UserService    = (*services.UserService)(nil)
)
