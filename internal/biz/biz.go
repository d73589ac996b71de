package biz

import (
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Session *usecase.SessionUsecase
	Table   *usecase.TableUsecase
	Compose *usecase.Composer
}
