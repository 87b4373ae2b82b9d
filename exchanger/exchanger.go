package exchanger

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"mshe/model"
	"mshe/thermo"
)

// 多流股换热器
// 在能量平衡、最小传热温差（夹点）和可选的目标 UA 约束下，
// 用阻尼牛顿迭代求解 1~3 个未知出口温度
type Exchanger struct {
	streams  []*Stream
	approach float64  // 最小传热温差 ℃
	targetUA *float64 // 目标 UA W/K，只在三个未知量时参与残差

	// 数值参数，构造时从配置拷贝到实例上
	tolerance       float64
	jacobiDelta     float64
	damping         float64
	maxIterations   int
	extremeAttempts int
	extremeEnergy   float64
	stallLimit      int
	stallRange      float64

	rnd *rand.Rand // 随机重置用的随机源，可注入种子复现

	hotLoad  float64 // 热侧负荷合计 kW，放热为负
	coldLoad float64 // 冷侧负荷合计 kW

	// 夹点计算的中间量，每次 pinch() 重建
	hotCurve    []model.CurvePoint
	coldCurve   []model.CurvePoint
	allLoad     []float64
	hotTempAll  []float64
	coldTempAll []float64

	// 停滞检测
	prevTemps    []float64
	stallCounter int

	// 收敛后的诊断量
	solved    bool
	runID     uuid.UUID
	pinchVal  float64
	uaVal     float64
	imbalance float64
}

func NewExchanger(approach float64) *Exchanger {
	return &Exchanger{
		approach:        approach,
		tolerance:       cfg.Tolerance,
		jacobiDelta:     cfg.JacobiDelta,
		damping:         cfg.Damping,
		maxIterations:   cfg.MaxIterations,
		extremeAttempts: cfg.ExtremeAttempts,
		extremeEnergy:   cfg.ExtremeEnergy,
		stallLimit:      cfg.StallLimit,
		stallRange:      cfg.StallRange,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// 注入随机种子，同一种子同一配置的求解结果逐位一致
func (e *Exchanger) SetSeed(seed int64) {
	e.rnd = rand.New(rand.NewSource(seed))
}

// 设置目标 UA，单位 W/K
func (e *Exchanger) SetUA(ua float64) {
	e.targetUA = &ua
}

// 登记一条流股，outletTemp 传 nil 表示出口温度未知
func (e *Exchanger) AddStream(fluid *thermo.Fluid, kind StreamKind, pressure, massFlow, inletTemp float64, outletTemp *float64) {
	s := &Stream{
		Fluid:        fluid,
		Kind:         kind,
		Pressure:     pressure,
		MassFlowRate: massFlow,
		InletTemp:    inletTemp,
	}
	if outletTemp != nil {
		s.OutletTemp = *outletTemp
	} else {
		s.Unknown = true
	}
	e.streams = append(e.streams, s)
}

// 求解全部未知出口温度并刷新诊断量
// 失败时不允许读取任何结果
func (e *Exchanger) Solve() error {
	e.solved = false
	e.runID = uuid.New()

	if e.approach <= 0 {
		return fmt.Errorf("最小传热温差必须大于零: %v", e.approach)
	}
	var unknowns []int
	hotCount, coldCount := 0, 0
	for i, s := range e.streams {
		if s.Kind == Hot {
			hotCount++
		} else {
			coldCount++
		}
		if s.Unknown {
			unknowns = append(unknowns, i)
		}
	}
	if hotCount == 0 || coldCount == 0 {
		return fmt.Errorf("冷热两侧都至少要有一条流股")
	}
	k := len(unknowns)
	if k > 3 {
		return fmt.Errorf("%w: %d 个", ErrTooManyUnknowns, k)
	}
	if k == 3 && e.targetUA == nil {
		return ErrNoTargetUA
	}

	// 入口比焓只算一次，迭代期间入口状态不变
	for _, s := range e.streams {
		h, err := s.Fluid.Enthalpy(s.Pressure, s.InletTemp)
		if err != nil {
			return err
		}
		s.hInlet = h
	}

	log.WithFields(log.Fields{
		"id":       e.runID,
		"streams":  len(e.streams),
		"unknowns": k,
		"approach": e.approach,
	}).Info("开始求解")

	if k > 0 {
		e.seedUnknowns(unknowns)
		e.prevTemps = nil
		e.stallCounter = 0
		if err := e.newton(unknowns, e.residualVector(k)); err != nil {
			return err
		}
	}

	imbalance, err := e.energyDiff()
	if err != nil {
		return err
	}
	e.imbalance = imbalance
	e.pinchVal = e.pinch()
	e.uaVal = e.calculateUA()
	e.solved = true
	log.WithFields(log.Fields{
		"id":        e.runID,
		"pinch":     e.pinchVal,
		"ua":        e.uaVal,
		"imbalance": e.imbalance,
	}).Info("求解完成")
	return nil
}

// 初始猜测：热流股取全局最冷入口 + 温差，冷流股取全局最热入口 − 温差
func (e *Exchanger) seedUnknowns(unknowns []int) {
	coldest, hottest := e.streams[0].InletTemp, e.streams[0].InletTemp
	for _, s := range e.streams {
		if s.InletTemp < coldest {
			coldest = s.InletTemp
		}
		if s.InletTemp > hottest {
			hottest = s.InletTemp
		}
	}
	for _, i := range unknowns {
		s := e.streams[i]
		if s.Kind == Hot {
			s.OutletTemp = coldest + e.approach
		} else {
			s.OutletTemp = hottest - e.approach
		}
	}
}

// 求解后读取第 i 条流股的出口温度
func (e *Exchanger) OutletTemperature(i int) float64 {
	return e.streams[i].OutletTemp
}

func (e *Exchanger) StreamCount() int {
	return len(e.streams)
}

func (e *Exchanger) Solved() bool {
	return e.solved
}

// 本次求解的标识
func (e *Exchanger) RunID() string {
	return e.runID.String()
}

// 求解后的夹点温差 ℃
func (e *Exchanger) Pinch() float64 {
	return e.pinchVal
}

// 求解后的总 UA，W/K
func (e *Exchanger) UA() float64 {
	return e.uaVal
}

// 求解后的能量不平衡量 kW，收敛时接近零
func (e *Exchanger) EnergyImbalance() float64 {
	return e.imbalance
}

// 当前出口温度下的冷热复合曲线
func (e *Exchanger) CompositeCurve() (hot, cold []model.CurvePoint) {
	e.compositeCurve()
	return e.hotCurve, e.coldCurve
}
