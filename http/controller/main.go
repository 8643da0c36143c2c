package controller

import (
	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
	"github.com/Jason-Gitau/jkuat-course-hub/repository"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository

	Selector *storage.Selector
	Signer   *storage.Signer
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("controller requires a repository")
	}
	env := cfg.EnvConfig

	var overflowWriter storage.ObjectWriter
	overflowBaseURL := ""
	var signer *storage.Signer
	if infra.Overflow != nil {
		overflowWriter = infra.Overflow
		overflowBaseURL = infra.Overflow.BaseURL()
		signer = storage.NewSigner(storage.SignerConfig{
			MaxFileSize: env.Upload.MaxFileSize,
			Bucket:      infra.Overflow.Bucket,
			Expiry:      env.Upload.PresignExpiry,
		}, infra.Overflow)
	}

	selector := storage.NewSelector(storage.SelectorConfig{
		MaxFileSize:        env.Upload.MaxFileSize,
		OverflowConfigured: infra.Overflow != nil,
		PrimaryBaseURL:     infra.Primary.BaseURL(),
		OverflowBaseURL:    overflowBaseURL,
	}, infra.Primary, overflowWriter, storage.NewPDFCompressor())

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Selector:   selector,
		Signer:     signer,
	}
}
