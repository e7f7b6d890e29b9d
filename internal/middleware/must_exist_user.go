package middleware

import (
	"context"
	"errors"

	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/router"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"gorm.io/gorm"
)

// MustExistUser rejects a verified token whose user was deleted, before any
// websocket is upgraded.
func MustExistUser(userRepo repository.UserRepository) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		requestUserID := xcontext.RequestUserID(ctx)
		if requestUserID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		if _, err := userRepo.GetByID(ctx, requestUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unauthenticated, "Not found user")
			}

			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		return nil, nil
	}
}
