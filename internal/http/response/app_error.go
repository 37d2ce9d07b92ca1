package response

// AppError 接口错误：status_code、本地化后的提示和原始错误
//
// Key 是 i18n 消息 key，直接传入文案时为空。
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	label := e.Message
	if label == "" {
		label = e.Key
	}
	if e.Err == nil {
		return label
	}
	return label + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ServerSide 5xx 类错误（存储、CMS、订单后端故障），日志按 error 级别记录
func (e *AppError) ServerSide() bool {
	return e.Code >= CodeInternal
}

// WrapError 以自定义文案包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WrapKeyedError 以 i18n key 及其译文包装错误
func WrapKeyedError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
