package exchanger

import "fmt"

// 残差向量，长度 k：
//   r[0] 能量差，全部流股负荷之和
//   r[1] 夹点温差 − 最小传热温差（两个以上未知量）
//   r[2] 当前 UA − 目标 UA（三个未知量）
func (e *Exchanger) residualVector(k int) func() ([]float64, error) {
	return func() ([]float64, error) {
		r := make([]float64, 0, 3)
		energy, err := e.energyDiff()
		if err != nil {
			return nil, err
		}
		r = append(r, energy)
		if k >= 2 {
			r = append(r, e.pinch()-e.approach)
		}
		if k >= 3 {
			r = append(r, e.calculateUA()-*e.targetUA)
		}
		return r, nil
	}
}

// 能量差 = 冷热两侧负荷之和，收敛时应接近零
// 同时刷新每条流股的负荷，供复合曲线使用
func (e *Exchanger) energyDiff() (float64, error) {
	e.hotLoad, e.coldLoad = 0, 0
	for i, s := range e.streams {
		load, err := s.computeLoad()
		if err != nil {
			return 0, fmt.Errorf("流股 %d 物性计算失败: %w", i, err)
		}
		if s.Kind == Hot {
			e.hotLoad += load
		} else {
			e.coldLoad += load
		}
	}
	return e.hotLoad + e.coldLoad, nil
}

// 单边差分数值雅可比
// 每列只扰动一个未知量，算完立即还原，扰动期间的物性失败原样上抛
func (e *Exchanger) numericalJacobian(unknowns []int, base []float64, residual func() ([]float64, error)) ([][]float64, error) {
	k := len(unknowns)
	jac := make([][]float64, k)
	for i := range jac {
		jac[i] = make([]float64, k)
	}
	for j, idx := range unknowns {
		orig := e.streams[idx].OutletTemp
		e.streams[idx].OutletTemp = orig + e.jacobiDelta
		perturbed, err := residual()
		e.streams[idx].OutletTemp = orig
		if err != nil {
			return nil, err
		}
		for i := 0; i < k; i++ {
			jac[i][j] = (perturbed[i] - base[i]) / e.jacobiDelta
		}
	}
	return jac, nil
}
