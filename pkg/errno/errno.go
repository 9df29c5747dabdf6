package errno

import (
	"errors"
	"fmt"
)

// 错误码与 HTTP 状态码保持一致
const (
	SuccessCode           = 200
	ValidationErrCode     = 400
	UnauthorizedErrCode   = 401
	ForbiddenErrCode      = 403
	NotFoundErrCode       = 404
	ConflictErrCode       = 409
	TooManyRequestsCode   = 429
	ServiceErrCode        = 500
	BlobStoreUnavailCode  = 503
	InvalidTransitionCode = ValidationErrCode
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
	kind    string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

// Is 只比较错误类别，WithMessage 之后仍能用 errors.Is 判断
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

func NewErrNo(code int64, kind, msg string) ErrNo {
	return ErrNo{ErrCode: code, ErrMsg: msg, kind: kind}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) WithMessagef(format string, args ...interface{}) ErrNo {
	e.ErrMsg = fmt.Sprintf(format, args...)
	return e
}

var (
	Success              = NewErrNo(SuccessCode, "success", "success")
	ValidationErr        = NewErrNo(ValidationErrCode, "validation", "请求参数错误")
	InvalidTransitionErr = NewErrNo(InvalidTransitionCode, "invalid_transition", "当前状态不允许该操作")
	InvalidReferenceErr  = NewErrNo(ValidationErrCode, "invalid_reference", "引用的对象无效")
	UnauthorizedErr      = NewErrNo(UnauthorizedErrCode, "unauthorized", "未登录或登录已过期")
	ForbiddenErr         = NewErrNo(ForbiddenErrCode, "forbidden", "权限不足")
	NotFoundErr          = NewErrNo(NotFoundErrCode, "not_found", "资源不存在")
	ConflictErr          = NewErrNo(ConflictErrCode, "conflict", "资源冲突")
	TooManyRequestsErr   = NewErrNo(TooManyRequestsCode, "too_many_requests", "请求过于频繁，请稍后再试")
	ServiceErr           = NewErrNo(ServiceErrCode, "service", "服务器错误")
	OssErr               = NewErrNo(BlobStoreUnavailCode, "oss", "文件存储服务不可用")
)

// ConvertErr 任何错误都转换为 ErrNo，非预期错误只返回通用提示，不暴露内部信息
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	return ServiceErr
}
