package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/repo"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/service"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/usecase"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/engine"
)

// ProviderSet 是新闻稿服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewStoryEngine,
	wire.Bind(new(repo.StoryEngine), new(*engine.Engine)),

	// UseCase providers
	usecase.NewNewsletterUseCase,

	// Service providers
	service.NewNewsletterService,
)
