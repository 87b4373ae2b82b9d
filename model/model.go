package model

// 前后端交互用到的公共结构

// 流股类型
const (
	Hot  = "hot"
	Cold = "cold"
)

// 单条流股配置
// OutletTemperature 为 null 时表示出口温度未知，由求解器求出
type StreamCfg struct {
	Fluid             string   `json:"fluid"`
	Kind              string   `json:"kind"`
	Pressure          float64  `json:"pressure"`           // bara
	MassFlowRate      float64  `json:"mass_flow_rate"`     // kg/s
	InletTemperature  float64  `json:"inlet_temperature"`  // ℃
	OutletTemperature *float64 `json:"outlet_temperature"` // ℃
}

// 换热器整体配置
type Env struct {
	ApproachTemperature float64     `json:"approach_temperature"` // 最小传热温差 ℃
	UA                  *float64    `json:"ua"`                   // 目标 UA W/K，可选
	Seed                *int64      `json:"seed"`                 // 随机种子，可选
	Streams             []StreamCfg `json:"streams"`
}

// 复合曲线上的一个点：累计热负荷 + 对应温度
type CurvePoint struct {
	Load        float64 `json:"load"`        // kW
	Temperature float64 `json:"temperature"` // ℃
}

// 求解结果
type SolveResult struct {
	ID              string    `json:"id"`
	OutletTemps     []float64 `json:"outlet_temps"`
	Pinch           float64   `json:"pinch"`
	UA              float64   `json:"ua"`
	EnergyImbalance float64   `json:"energy_imbalance"`
}

// 消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
