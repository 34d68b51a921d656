package repository

import "errors"

// ErrPropertyNotFound 指定IDの物件が存在しない
var ErrPropertyNotFound = errors.New("property not found")
