package models

// Agent 圆桌专家角色定义
// 进程启动时从内置目录加载，之后不可变，其他地方一律按 ID 引用
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Persona      string `json:"persona"`      // 完整角色指令（响应框架）
	ShortPersona string `json:"shortPersona"` // 一句话简介（规划目录用）
}
