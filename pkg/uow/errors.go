package uow

import "errors"

var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrNilRepositoryFactory        = errors.New("[uow] nil repository factory")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
)
