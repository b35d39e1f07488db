package model

// SysOperateLog 操作日志表，由 kafka 消费者异步落库

type SysOperateLog struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ActionName string `gorm:"column:action_name;size:100" json:"action_name"`
	UserID     int64  `gorm:"column:user_id;index" json:"user_id"`
	URL        string `gorm:"column:url;size:255" json:"url"`
	Method     string `gorm:"column:method;size:10" json:"method"`
	Status     int    `gorm:"column:status" json:"status"`
	LatencyMs  int64  `gorm:"column:latency_ms" json:"latency_ms"`
	IP         string `gorm:"column:ip;size:50" json:"ip"`
	Data       string `gorm:"column:data;type:text" json:"data"`
	AddTime    int64  `gorm:"column:add_time;index" json:"add_time"`
}

func (SysOperateLog) TableName() string { return "sys_operate_log" }
