package service

import (
	"errors"

	"Lin_BookClub/internal/pkg"

	"gorm.io/gorm"
)

// storeErr 把存储层错误翻译成统一分类
func storeErr(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkg.NewError(pkg.KindNotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkg.NewError(pkg.KindConflict, conflictMsg)
	}
	return pkg.WrapError(pkg.KindInternal, "storage error", err)
}
