package contract

import "github.com/alexanderramin/sophia/internal/app"

type ProgressRequest = app.ProgressRequest

type ProgressView = app.ProgressView
