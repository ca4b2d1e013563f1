package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/boolmaze-server/internal/config"
	"github.com/vancomm/boolmaze-server/internal/handlers"
	"github.com/vancomm/boolmaze-server/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	maze := handlers.NewMazeHandler(
		a.logger, a.sessions, a.cookies, a.ws, config.Development(),
	)
	records := handlers.NewRecordsHandler(a.logger, a.records)

	limited := middleware.RateLimit(a.ws.CommandRate, a.ws.CommandBurst)

	a.router.HandleFunc("GET /status", handlers.Status)
	a.router.HandleFunc("GET /help", maze.Help)
	a.router.HandleFunc("GET /records", records.List)

	a.router.HandleFunc("POST /maze", maze.NewMaze)
	a.router.HandleFunc("GET /maze/{id}", maze.Fetch)
	a.router.Handle("POST /maze/{id}/press", middleware.WrapFunc(maze.Press, limited))
	a.router.Handle("POST /maze/{id}/command", middleware.WrapFunc(maze.Command, limited))
	a.router.HandleFunc("/maze/{id}/connect", maze.ConnectWS)
}
