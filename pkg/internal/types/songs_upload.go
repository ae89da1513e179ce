package types

// CheckFileRequest 按内容指纹查询是否已有同内容的歌曲对象.
type CheckFileRequest struct {
	FileHash string `binding:"required" json:"file_hash"`
}

// CheckFileResponse 指纹查询结果. 命中时附带规范对象键与访问地址.
type CheckFileResponse struct {
	Exists    bool   `json:"exists"`
	ObjectKey string `json:"object_key,omitempty"`
	FileURL   string `json:"file_url,omitempty"`
}

// UploadURLRequest 请求上传预签名 URL.
type UploadURLRequest struct {
	Filename    string `binding:"required" json:"filename"`
	ContentType string `binding:"required" json:"content_type"`
	FileHash    string `binding:"required" json:"file_hash"`
}

// UploadURLResponse 预签名上传结果. 去重命中时不签发 upload_url，
// 客户端直接复用已存在的对象.
type UploadURLResponse struct {
	UploadURL     string `json:"upload_url,omitempty"`
	FileURL       string `json:"file_url"`
	Key           string `json:"key"`
	AlreadyExists bool   `json:"already_exists"`
}

// ConfirmUploadRequest 客户端完成 PUT 后确认上传.
// FileHash 可选，提供时记录到歌曲记录，参与后续去重.
type ConfirmUploadRequest struct {
	Key      string `binding:"required" json:"key"`
	Title    string `json:"title,omitempty"`
	FileHash string `json:"file_hash,omitempty"`
}
