package service

import "errors"

// 业务错误哨兵值，handle 层据此映射 HTTP 状态码.
var (
	// ErrInvalidContentType 上传内容类型不被接受.
	ErrInvalidContentType = errors.New("unsupported content type")
	// ErrInvalidFilename 文件名为空或超长.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrInvalidHash 内容指纹不是 64 位小写十六进制.
	ErrInvalidHash = errors.New("invalid file hash")
	// ErrInvalidKey 对象键不符合线上格式.
	ErrInvalidKey = errors.New("invalid object key")
	// ErrInvalidPatch 更新补丁字段校验失败.
	ErrInvalidPatch = errors.New("invalid patch")
	// ErrUploadNotFound 确认上传时对象尚未出现在存储桶中.
	ErrUploadNotFound = errors.New("uploaded object not found")
	// ErrMissingStorageKey 直接建档时无法解析出对象键.
	ErrMissingStorageKey = errors.New("missing storage key")
	// ErrStoreUnavailable 对象存储基础设施故障，区别于对象不存在.
	ErrStoreUnavailable = errors.New("object store unavailable")
	// ErrNotFound 歌曲不存在或已删除.
	ErrNotFound = errors.New("song not found")
	// ErrForbidden 当前用户不是记录属主.
	ErrForbidden = errors.New("not the owner")
	// ErrEmailTaken 邮箱已被注册.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 邮箱或口令错误，登录失败时统一返回.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
