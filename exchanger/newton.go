package exchanger

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// 阻尼牛顿驱动
// 每轮先做可行性检查（必要时随机重置），再算残差和数值雅可比，
// 闭式解出增量后按固定阻尼系数更新未知出口温度
func (e *Exchanger) newton(unknowns []int, residual func() ([]float64, error)) error {
	for iter := 0; iter < e.maxIterations; iter++ {
		stalled := e.stallDetection(unknowns)
		if err := e.resetOfExtremes(unknowns, stalled); err != nil {
			return err
		}
		r, err := residual()
		if err != nil {
			return err
		}
		if maxAbs(r) < e.tolerance {
			log.WithFields(log.Fields{
				"id":         e.runID,
				"iterations": iter,
			}).Debug("牛顿迭代收敛")
			return nil
		}
		jac, err := e.numericalJacobian(unknowns, r, residual)
		if err != nil {
			return err
		}
		delta, err := solveLinear(jac, r)
		if err != nil {
			return err
		}
		for i, idx := range unknowns {
			e.streams[idx].OutletTemp -= e.damping * delta[i]
		}
	}
	return fmt.Errorf("%w: 迭代 %d 次", ErrNotConverged, e.maxIterations)
}

// 停滞检测
// 未知量连续 stallLimit 次迭代步长都不超过 stallRange，
// 认为陷入局部区域，返回 true 触发一次强制随机重置
func (e *Exchanger) stallDetection(unknowns []int) bool {
	stalled := false
	if e.prevTemps != nil {
		maxDelta := 0.0
		for i, idx := range unknowns {
			d := math.Abs(e.streams[idx].OutletTemp - e.prevTemps[i])
			if d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta <= e.stallRange {
			e.stallCounter++
		} else {
			e.stallCounter = 0
		}
		if e.stallCounter >= e.stallLimit {
			e.stallCounter = 0
			stalled = true
		}
	}
	e.prevTemps = e.prevTemps[:0]
	for _, idx := range unknowns {
		e.prevTemps = append(e.prevTemps, e.streams[idx].OutletTemp)
	}
	return stalled
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if math.Abs(x) > m {
			m = math.Abs(x)
		}
	}
	return m
}
