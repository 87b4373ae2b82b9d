package exchanger

import (
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
)

// 可行性守卫
// 每次残差计算前按固定顺序做三项检查：换热方向、冷热能量比、复合曲线不交叉
// 任何一项不通过（或上游判定停滞）就丢弃当前猜测，在物理范围内重新随机取值，
// 重置次数耗尽仍不可行时带上最后一次的诊断信息报错
func (e *Exchanger) resetOfExtremes(unknowns []int, stalled bool) error {
	if len(unknowns) == 0 {
		return nil
	}
	var msgs []string
	for attempt := 1; attempt <= e.extremeAttempts; attempt++ {
		msgs = msgs[:0]

		directionOk := true
		for _, i := range unknowns {
			s := e.streams[i]
			if s.Kind == Hot && s.OutletTemp >= s.InletTemp {
				directionOk = false
				msgs = append(msgs, fmt.Sprintf("流股 %d 热出口 %.2f ℃ 不低于入口 %.2f ℃", i, s.OutletTemp, s.InletTemp))
			} else if s.Kind == Cold && s.OutletTemp <= s.InletTemp {
				directionOk = false
				msgs = append(msgs, fmt.Sprintf("流股 %d 冷出口 %.2f ℃ 不高于入口 %.2f ℃", i, s.OutletTemp, s.InletTemp))
			}
		}

		energyOk := false
		if directionOk {
			if _, err := e.energyDiff(); err != nil {
				// 物性失败不参与重置，原样上抛
				return err
			}
			ratio := math.Abs(e.hotLoad / e.coldLoad)
			energyOk = ratio >= 1-e.extremeEnergy && ratio <= 1+e.extremeEnergy
			if !energyOk {
				msgs = append(msgs, fmt.Sprintf("冷热能量比 %.3f 超出 ±%.0f%%", ratio, e.extremeEnergy*100))
			}
		}

		crossingOk := false
		if directionOk && energyOk {
			crossingOk = true
			e.pinch()
			for i := 1; i < len(e.allLoad); i++ {
				dT1 := e.hotTempAll[i-1] - e.coldTempAll[i-1]
				dT2 := e.hotTempAll[i] - e.coldTempAll[i]
				if dT1 <= e.tolerance || dT2 <= e.tolerance {
					crossingOk = false
					msgs = append(msgs, fmt.Sprintf("区段 %d 温差过小: ΔT1=%.3f ℃, ΔT2=%.3f ℃", i, dT1, dT2))
				}
			}
		}

		if directionOk && energyOk && crossingOk {
			if !stalled {
				return nil
			}
			msgs = append(msgs, "检测到局部停滞")
		}
		// 强制重置只生效一次
		stalled = false

		e.randomizeUnknowns(unknowns)
		log.WithFields(log.Fields{
			"id":      e.runID,
			"attempt": attempt,
			"reason":  strings.Join(msgs, "; "),
		}).Warn("重置未知出口温度")
	}
	return fmt.Errorf("%w: %d 次尝试，最后一次: %s", ErrInfeasible, e.extremeAttempts, strings.Join(msgs, "; "))
}

// 在物理范围内均匀随机重置未知出口温度
// 热流股落在 [最冷冷流股入口+温差, 自身入口]，冷流股落在 [自身入口, 最热热流股入口−温差]
func (e *Exchanger) randomizeUnknowns(unknowns []int) {
	coldestCold := math.MaxFloat64
	hottestHot := -math.MaxFloat64
	for _, s := range e.streams {
		if s.Kind == Cold && s.InletTemp < coldestCold {
			coldestCold = s.InletTemp
		}
		if s.Kind == Hot && s.InletTemp > hottestHot {
			hottestHot = s.InletTemp
		}
	}
	for _, i := range unknowns {
		s := e.streams[i]
		var lower, upper float64
		if s.Kind == Hot {
			lower, upper = coldestCold+e.approach, s.InletTemp
		} else {
			lower, upper = s.InletTemp, hottestHot-e.approach
		}
		s.OutletTemp = lower + e.rnd.Float64()*(upper-lower)
	}
}
