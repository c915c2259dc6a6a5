package service

import (
	"errors"
	"fmt"
	"time"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	PaymentRequired     = 402
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrBatchTooLarge        = errors.New("批量请求数量超过限制")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserInactive         = errors.New("用户已被停用")
	ErrEmailExist           = errors.New("邮箱已注册")
	ErrUsernameExist        = errors.New("用户名已存在")
	ErrPasswordIncorrect    = errors.New("邮箱或密码错误")
	ErrVideoNotFound        = errors.New("视频不存在")
	ErrVideoForbidden       = errors.New("无权操作该视频")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrCommentForbidden     = errors.New("无权操作该评论")
	ErrAlreadyLiked         = errors.New("已点赞")
	ErrLikeNotFound         = errors.New("尚未点赞")
	ErrAlreadyBookmarked    = errors.New("已收藏")
	ErrBookmarkNotFound     = errors.New("尚未收藏")
	ErrFollowSelf           = errors.New("不能关注自己")
	ErrAlreadyFollowing     = errors.New("已关注该用户")
	ErrFollowNotFound       = errors.New("尚未关注该用户")
	ErrBlockSelf            = errors.New("不能拉黑自己")
	ErrAlreadyBlocked       = errors.New("已拉黑该用户")
	ErrBlockNotFound        = errors.New("尚未拉黑该用户")
	ErrReportSelf           = errors.New("不能举报自己")
	ErrReportTarget         = errors.New("举报对象必须且只能有一个")
	ErrReportNotFound       = errors.New("举报不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrHashtagNotFound      = errors.New("话题不存在")
	ErrPackageNotFound      = errors.New("充值套餐不存在")
	ErrInsufficientCredits  = errors.New("积分不足")
	ErrDailyAlreadyClaimed  = errors.New("今日积分已领取")
	ErrJobNotFound          = errors.New("任务不存在")
	ErrUpstreamFailure      = errors.New("生成服务调用失败")
	ErrFileNotSupported     = errors.New("不支持的文件类型")
	ErrFrameCaptureFailed   = errors.New("视频截帧失败")
	ErrActionDuplicate      = errors.New("重复操作")
	ErrTimestampOutOfRange  = errors.New("时间点超出视频时长")
	ErrRangeInvalid         = errors.New("选择区间无效")
	UnauthorizedError       = errors.New("未登录或登录已失效")
	ForbiddenError          = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrBatchTooLarge:        BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserInactive:         Forbidden,
	ErrEmailExist:           Conflict,
	ErrUsernameExist:        Conflict,
	ErrPasswordIncorrect:    Unauthorized,
	ErrVideoNotFound:        NotFound,
	ErrVideoForbidden:       Forbidden,
	ErrCommentNotFound:      NotFound,
	ErrCommentForbidden:     Forbidden,
	ErrAlreadyLiked:         Conflict,
	ErrLikeNotFound:         NotFound,
	ErrAlreadyBookmarked:    Conflict,
	ErrBookmarkNotFound:     NotFound,
	ErrFollowSelf:           BadRequest,
	ErrAlreadyFollowing:     Conflict,
	ErrFollowNotFound:       NotFound,
	ErrBlockSelf:            BadRequest,
	ErrAlreadyBlocked:       Conflict,
	ErrBlockNotFound:        NotFound,
	ErrReportSelf:           BadRequest,
	ErrReportTarget:         BadRequest,
	ErrReportNotFound:       NotFound,
	ErrNotificationNotFound: NotFound,
	ErrHashtagNotFound:      NotFound,
	ErrPackageNotFound:      BadRequest,
	ErrInsufficientCredits:  PaymentRequired,
	ErrDailyAlreadyClaimed:  BadRequest,
	ErrJobNotFound:          NotFound,
	ErrUpstreamFailure:      BadGateway,
	ErrFileNotSupported:     BadRequest,
	ErrFrameCaptureFailed:   InternalServerError,
	ErrActionDuplicate:      Conflict,
	ErrTimestampOutOfRange:  BadRequest,
	ErrRangeInvalid:         BadRequest,
	UnauthorizedError:       Unauthorized,
	ForbiddenError:          Forbidden,
	UnExpectedError:         InternalServerError,
}

// CodeOf 查找错误对应的业务码，支持包装过的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}

// DetailedError 需要向客户端返回附加数据的错误
type DetailedError interface {
	error
	Detail() any
}

// InsufficientCreditsError 余额不足，携带所需与可用积分
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("Insufficient credits. Required: %d, Available: %d", e.Required, e.Available)
}

func (e *InsufficientCreditsError) Unwrap() error { return ErrInsufficientCredits }

func (e *InsufficientCreditsError) Detail() any {
	return map[string]int{"required": e.Required, "available": e.Available}
}

// DailyClaimError 每日积分尚不可领取
type DailyClaimError struct {
	NextClaimAt    time.Time
	HoursRemaining int
}

// NewDailyClaimError 剩余小时数向下取整
func NewDailyClaimError(now, next time.Time) *DailyClaimError {
	return &DailyClaimError{NextClaimAt: next, HoursRemaining: int(next.Sub(now).Hours())}
}

func (e *DailyClaimError) Error() string {
	return "Daily credits already claimed"
}

func (e *DailyClaimError) Unwrap() error { return ErrDailyAlreadyClaimed }

func (e *DailyClaimError) Detail() any {
	return map[string]any{
		"next_claim_at":   e.NextClaimAt,
		"hours_remaining": e.HoursRemaining,
	}
}

// BatchLimitError 批量请求超过上限
func BatchLimitError(limit int) error {
	return fmt.Errorf("%w: 最多 %d 个", ErrBatchTooLarge, limit)
}
