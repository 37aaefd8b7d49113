// Package di contains dependency injection tokens for the dashboard context.
package di

import (
	"github.com/fd1az/superboost/business/dashboard/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	DashboardService = di.NewToken[*app.DashboardService]("dashboard.DashboardService")
)

func GetDashboardService(c di.ServiceRegistry) *app.DashboardService {
	return di.GetToken(c, DashboardService)
}
