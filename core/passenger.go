package core

import "strings"

// PNRLength 是 PNR 的固定长度（10 位数字）。
const PNRLength = 10

// Passenger 是已登记乘客，也是匹配阶段的候选人。
//
// 登记后除座位元信息（SeatType / Coach）外不可变，正常运行中不会被删除。
type Passenger struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	PNR    string `json:"pnr"`

	// 座位元信息（可选）
	SeatType string `json:"seat_type,omitempty"` // Lower / Middle / Upper / Side Lower / Side Upper
	Coach    *int   `json:"coach,omitempty"`     // 车厢序号，未知时为 nil

	// GroupSize 同一 PNR 下同行人数，未知时按 1 处理
	GroupSize int `json:"group_size,omitempty"`
}

// CoachIndex 返回车厢序号，未知时第二个返回值为 false。
func (p Passenger) CoachIndex() (int, bool) {
	if p.Coach == nil {
		return 0, false
	}
	return *p.Coach, true
}

// EffectiveGroupSize 返回同行人数，未设置或非法时返回 1。
func (p Passenger) EffectiveGroupSize() int {
	if p.GroupSize < 1 {
		return 1
	}
	return p.GroupSize
}

// Validate 校验登记字段：姓名非空，PNR 为 10 位数字。
func (p Passenger) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !ValidPNR(p.PNR) {
		return NewValidationError("pnr", "must be exactly %d digits", PNRLength)
	}
	if p.GroupSize < 0 {
		return NewValidationError("group_size", "must be >= 1, got %d", p.GroupSize)
	}
	if p.Coach != nil && *p.Coach < 0 {
		return NewValidationError("coach", "must be >= 0, got %d", *p.Coach)
	}
	return nil
}

// ValidPNR 检查 PNR 是否为 10 位 ASCII 数字。
func ValidPNR(pnr string) bool {
	if len(pnr) != PNRLength {
		return false
	}
	for i := 0; i < len(pnr); i++ {
		if pnr[i] < '0' || pnr[i] > '9' {
			return false
		}
	}
	return true
}

// IntPtr 返回 v 的指针，便于构造可选的 Coach 字段。
func IntPtr(v int) *int { return &v }
