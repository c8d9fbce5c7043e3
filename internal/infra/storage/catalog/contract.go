package catalog

import "github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
