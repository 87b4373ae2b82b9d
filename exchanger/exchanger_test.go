package exchanger

import (
	"errors"
	"math"
	"testing"

	"mshe/thermo"
)

func ptr(v float64) *float64 { return &v }

// 单未知量：能量平衡有直接代数解
// 2×2×(150−T) = 3×1.5×(100−30) → T = 150 − 315/4 = 71.25
func TestSolveOneUnknown(t *testing.T) {
	e := NewExchanger(10)
	e.SetSeed(1)
	e.extremeAttempts = 200
	e.AddStream(thermo.NewConstCpFluid("热油", 2.0), Hot, 5, 2, 150, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 1.5), Cold, 3, 3, 30, ptr(100))
	if err := e.Solve(); err != nil {
		t.Fatal(err)
	}
	want := 150 - 315.0/4
	if got := e.OutletTemperature(0); math.Abs(got-want) > 1e-2 {
		t.Fatalf("热流股出口温度 = %v, 期望 %v", got, want)
	}
	if math.Abs(e.EnergyImbalance()) > 1e-3 {
		t.Fatalf("能量不平衡: %v", e.EnergyImbalance())
	}
	if e.Pinch() < 10-1e-3 {
		t.Fatalf("夹点 %v 低于最小传热温差", e.Pinch())
	}
	if e.OutletTemperature(0) >= 150 {
		t.Fatal("热流股出口温度不应高于入口")
	}
}

// 同一种子同一配置的两次求解必须逐位一致
func TestSolveDeterministic(t *testing.T) {
	run := func() float64 {
		e := NewExchanger(10)
		e.SetSeed(7)
		e.extremeAttempts = 200
		e.AddStream(thermo.NewConstCpFluid("热油", 2.0), Hot, 5, 2, 150, nil)
		e.AddStream(thermo.NewConstCpFluid("循环水", 1.5), Cold, 3, 3, 30, ptr(100))
		if err := e.Solve(); err != nil {
			t.Fatal(err)
		}
		return e.OutletTemperature(0)
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("同种子两次求解不一致: %v != %v", a, b)
	}
}

// 三流股、出口全部已知时只算诊断量
// 几何取成两段：前段冷热斜率相同温差恒为 22.8 ℃，后段温差线性收窄到 5 ℃，
// 夹点 5 ℃，UA = 1000×(79.4/22.8 + ln(22.8/5)) ≈ 4999.8 W/K
func TestPinchAndUADiagnostics(t *testing.T) {
	e := NewExchanger(5)
	e.AddStream(thermo.NewConstCpFluid("热油", 1.0), Hot, 10, 1, 150, ptr(52.8))
	e.AddStream(thermo.NewConstCpFluid("循环水", 0.5), Cold, 10, 1, 30, ptr(145))
	e.AddStream(thermo.NewConstCpFluid("锅炉给水", 0.5), Cold, 10, 1, 30, ptr(109.4))
	if err := e.Solve(); err != nil {
		t.Fatal(err)
	}
	if math.Abs(e.EnergyImbalance()) > 1e-9 {
		t.Fatalf("能量不平衡: %v", e.EnergyImbalance())
	}
	if math.Abs(e.Pinch()-5) > 1e-9 {
		t.Fatalf("夹点 = %v, 期望 5", e.Pinch())
	}
	wantUA := 1000 * (79.4/22.8 + math.Log(22.8/5))
	if math.Abs(e.UA()-wantUA) > 1e-6 {
		t.Fatalf("UA = %v, 期望 %v", e.UA(), wantUA)
	}
}

// 两个未知量：能量 + 夹点残差
// 配置与 TestPinchAndUADiagnostics 相同，解应当回到 52.8 / 145 ℃，
// 收敛后按复合曲线重算的 UA 距 5000 W/K 不超过 0.1%
func TestSolveTwoUnknownsWithUATarget(t *testing.T) {
	e := NewExchanger(5)
	e.SetSeed(3)
	e.extremeAttempts = 500
	e.SetUA(5000)
	e.AddStream(thermo.NewConstCpFluid("热油", 1.0), Hot, 10, 1, 150, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 0.5), Cold, 10, 1, 30, nil)
	e.AddStream(thermo.NewConstCpFluid("锅炉给水", 0.5), Cold, 10, 1, 30, ptr(109.4))
	if err := e.Solve(); err != nil {
		t.Fatal(err)
	}
	if math.Abs(e.EnergyImbalance()) > 1e-3 {
		t.Fatalf("能量不平衡: %v", e.EnergyImbalance())
	}
	if e.Pinch() < 5-1e-3 {
		t.Fatalf("夹点 %v 低于最小传热温差", e.Pinch())
	}
	if math.Abs(e.UA()-5000) > 5 {
		t.Fatalf("UA = %v, 距 5000 超过 0.1%%", e.UA())
	}
	if got := e.OutletTemperature(0); math.Abs(got-52.8) > 0.05 {
		t.Fatalf("热流股出口 = %v, 期望约 52.8", got)
	}
	if got := e.OutletTemperature(1); math.Abs(got-145) > 0.05 {
		t.Fatalf("冷流股出口 = %v, 期望约 145", got)
	}
}

// 三个未知量：能量 + 夹点 + UA 残差
func TestSolveThreeUnknowns(t *testing.T) {
	e := NewExchanger(5)
	e.SetSeed(11)
	e.extremeAttempts = 500
	e.SetUA(5000)
	e.AddStream(thermo.NewConstCpFluid("热油", 1.0), Hot, 10, 1, 150, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 0.5), Cold, 10, 1, 30, nil)
	e.AddStream(thermo.NewConstCpFluid("锅炉给水", 0.5), Cold, 10, 1, 30, nil)
	if err := e.Solve(); err != nil {
		t.Fatal(err)
	}
	if math.Abs(e.EnergyImbalance()) > 1e-3 {
		t.Fatalf("能量不平衡: %v", e.EnergyImbalance())
	}
	if e.Pinch() < 5-1e-3 {
		t.Fatalf("夹点 %v 低于最小传热温差", e.Pinch())
	}
	if math.Abs(e.UA()-5000) > 5 {
		t.Fatalf("UA = %v, 距目标 5000 超过 0.1%%", e.UA())
	}
	for i := 0; i < e.StreamCount(); i++ {
		s := e.streams[i]
		if s.Kind == Hot && s.OutletTemp >= s.InletTemp {
			t.Fatalf("流股 %d 热出口 %v 不低于入口 %v", i, s.OutletTemp, s.InletTemp)
		}
		if s.Kind == Cold && s.OutletTemp <= s.InletTemp {
			t.Fatalf("流股 %d 冷出口 %v 不高于入口 %v", i, s.OutletTemp, s.InletTemp)
		}
	}
}

// 三个未知量但没有目标 UA，方程数不足，直接拒绝
func TestSolveThreeUnknownsWithoutUA(t *testing.T) {
	e := NewExchanger(5)
	e.AddStream(thermo.NewConstCpFluid("热油", 1.0), Hot, 10, 1, 150, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 0.5), Cold, 10, 1, 30, nil)
	e.AddStream(thermo.NewConstCpFluid("锅炉给水", 0.5), Cold, 10, 1, 30, nil)
	if err := e.Solve(); !errors.Is(err, ErrNoTargetUA) {
		t.Fatalf("err = %v, 期望 ErrNoTargetUA", err)
	}
}

func TestSolveTooManyUnknowns(t *testing.T) {
	e := NewExchanger(5)
	e.SetUA(5000)
	e.AddStream(thermo.NewConstCpFluid("热油", 1.0), Hot, 10, 1, 150, nil)
	e.AddStream(thermo.NewConstCpFluid("导热油", 1.0), Hot, 10, 1, 140, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 0.5), Cold, 10, 1, 30, nil)
	e.AddStream(thermo.NewConstCpFluid("锅炉给水", 0.5), Cold, 10, 1, 30, nil)
	if err := e.Solve(); !errors.Is(err, ErrTooManyUnknowns) {
		t.Fatalf("err = %v, 期望 ErrTooManyUnknowns", err)
	}
}

// 最小传热温差超过冷热入口温度跨度，物理上不可行，
// 随机重置次数耗尽后必须报 ErrInfeasible
func TestSolveInfeasibleApproach(t *testing.T) {
	e := NewExchanger(50)
	e.SetSeed(9)
	e.AddStream(thermo.NewConstCpFluid("热油", 2.0), Hot, 5, 1, 100, nil)
	e.AddStream(thermo.NewConstCpFluid("循环水", 1.5), Cold, 3, 1, 90, ptr(95))
	if err := e.Solve(); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("err = %v, 期望 ErrInfeasible", err)
	}
	if e.Solved() {
		t.Fatal("求解失败后不应标记为已求解")
	}
}

// 单侧缺流股时拒绝求解
func TestSolveRequiresBothSides(t *testing.T) {
	e := NewExchanger(5)
	e.AddStream(thermo.NewConstCpFluid("热油", 2.0), Hot, 5, 1, 100, nil)
	if err := e.Solve(); err == nil {
		t.Fatal("只有热流股时应当报错")
	}
}

// 物性范围外的入口温度必须把闪蒸错误原样抛出
func TestSolvePropagatesFlashError(t *testing.T) {
	water, err := thermo.NewFluid("water")
	if err != nil {
		t.Fatal(err)
	}
	e := NewExchanger(5)
	e.AddStream(water, Hot, 5, 1, 500, nil) // water 物性上限 370 ℃
	e.AddStream(water, Cold, 3, 1, 30, ptr(60))
	err = e.Solve()
	var flashErr *thermo.FlashError
	if !errors.As(err, &flashErr) {
		t.Fatalf("err = %v, 期望 FlashError", err)
	}
}
