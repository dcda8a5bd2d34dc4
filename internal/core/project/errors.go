package project

import "errors"

var (
	// ErrProjectNotFound はプロジェクトが存在しない場合に返却されます。
	ErrProjectNotFound = errors.New("project: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("project: invalid id")
	// ErrInvalidName はプロジェクト名が不正な場合に返却されます。
	ErrInvalidName = errors.New("project: invalid name")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("project: invalid status")
	// ErrInvalidSatisfaction は顧客満足度が不正な場合に返却されます。
	ErrInvalidSatisfaction = errors.New("project: invalid client satisfaction")
	// ErrInvalidDateRange は開始日・終了日が不正な場合に返却されます。
	ErrInvalidDateRange = errors.New("project: invalid date range")
	// ErrInvalidRequirement は要員要件が不正な場合に返却されます。
	ErrInvalidRequirement = errors.New("project: invalid requirement")
	// ErrRoleNotFound は要員要件のロールが存在しない場合に返却されます。
	ErrRoleNotFound = errors.New("project: role not found")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("project: invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("project: invalid page token")
)
