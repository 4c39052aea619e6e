package fx

import (
	"database/sql"

	"swyftx-slam/internal/api"
	"swyftx-slam/internal/config"
	"swyftx-slam/internal/database"
	"swyftx-slam/internal/db"
	"swyftx-slam/internal/logger"
	"swyftx-slam/internal/repository"
	"swyftx-slam/internal/scheduler"
	"swyftx-slam/internal/server"
	"swyftx-slam/internal/service"
	"swyftx-slam/internal/trashtalk"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideTransactor(store *repository.Store) service.Transactor {
	return store
}

func ProvideAnnouncer(slack *api.SlackClient, feed *server.Feed) service.Announcer {
	return service.Broadcast{slack, feed}
}

func ProvideRoundGenerator(rounds *service.RoundService) scheduler.RoundGenerator {
	return rounds
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// store
	fx.Provide(repository.NewStore),
	fx.Provide(ProvideTransactor),
	// slack
	fx.Provide(api.NewSlackClient),
	fx.Provide(server.NewFeed),
	fx.Provide(ProvideAnnouncer),
	fx.Provide(trashtalk.New),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewMatchDetailService),
	fx.Provide(service.NewRoundService),
	fx.Provide(service.NewSeasonService),
	// scheduler
	fx.Provide(ProvideRoundGenerator),
	fx.Provide(scheduler.New),
	// server
	fx.Provide(server.NewLadderServer),
)
