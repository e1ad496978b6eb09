// Package calc вычисляет времена намазов по положению Солнца.
//
// Формулы солнечных координат взяты из Meeus, "Astronomical Algorithms":
// низкоточный ряд для долготы, наклона эклиптики и нутации, затем
// интерполяция по трём соседним дням для транзита и часовых углов.
package calc

import "math"

const (
	j2000          = 2451545.0
	daysPerCentury = 36525.0
	// Высота верхнего края Солнца на восходе с учётом рефракции: -50'.
	horizonAltitude = -50.0 / 60.0
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func normalizeToScale(n, scale float64) float64 {
	return n - scale*math.Floor(n/scale)
}

func unwindAngle(a float64) float64 {
	return normalizeToScale(a, 360)
}

func quadrantShiftAngle(a float64) float64 {
	if a >= -180 && a <= 180 {
		return a
	}
	return a - 360*math.Round(a/360)
}

// julianDay возвращает юлианский день для 0h UT календарной даты.
func julianDay(year, month, day int) float64 {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Trunc(float64(y) / 100)
	b := math.Trunc(2 - a + math.Trunc(a/4))
	i0 := math.Trunc(365.25 * float64(y+4716))
	i1 := math.Trunc(30.6001 * float64(m+1))
	return i0 + i1 + float64(day) + b - 1524.5
}

func julianCentury(jd float64) float64 {
	return (jd - j2000) / daysPerCentury
}

func meanSolarLongitude(t float64) float64 {
	return unwindAngle(280.4664567 + 36000.76983*t + 0.0003032*t*t)
}

func meanLunarLongitude(t float64) float64 {
	return unwindAngle(218.3165 + 481267.8813*t)
}

func ascendingLunarNodeLongitude(t float64) float64 {
	return unwindAngle(125.04452 - 1934.136261*t + 0.0020708*t*t + t*t*t/450000)
}

func meanSolarAnomaly(t float64) float64 {
	return unwindAngle(357.52911 + 35999.05029*t - 0.0001537*t*t)
}

func solarEquationOfTheCenter(t, anomaly float64) float64 {
	m := degToRad(anomaly)
	term1 := (1.914602 - 0.004817*t - 0.000014*t*t) * math.Sin(m)
	term2 := (0.019993 - 0.000101*t) * math.Sin(2*m)
	term3 := 0.000289 * math.Sin(3*m)
	return term1 + term2 + term3
}

func apparentSolarLongitude(t, meanLongitude float64) float64 {
	longitude := meanLongitude + solarEquationOfTheCenter(t, meanSolarAnomaly(t))
	omega := 125.04 - 1934.136*t
	return unwindAngle(longitude - 0.00569 - 0.00478*math.Sin(degToRad(omega)))
}

func meanObliquityOfTheEcliptic(t float64) float64 {
	return 23.439291 - 0.013004167*t - 0.0000001639*t*t + 0.0000005036*t*t*t
}

func apparentObliquityOfTheEcliptic(t, meanObliquity float64) float64 {
	omega := 125.04 - 1934.136*t
	return meanObliquity + 0.00256*math.Cos(degToRad(omega))
}

func meanSiderealTime(t float64) float64 {
	jd := t*daysPerCentury + j2000
	theta := 280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*t*t - t*t*t/38710000
	return unwindAngle(theta)
}

func nutationInLongitude(solarLongitude, lunarLongitude, node float64) float64 {
	term1 := (-17.2 / 3600) * math.Sin(degToRad(node))
	term2 := (1.32 / 3600) * math.Sin(2*degToRad(solarLongitude))
	term3 := (0.23 / 3600) * math.Sin(2*degToRad(lunarLongitude))
	term4 := (0.21 / 3600) * math.Sin(2*degToRad(node))
	return term1 - term2 - term3 + term4
}

func nutationInObliquity(solarLongitude, lunarLongitude, node float64) float64 {
	term1 := (9.2 / 3600) * math.Cos(degToRad(node))
	term2 := (0.57 / 3600) * math.Cos(2*degToRad(solarLongitude))
	term3 := (0.10 / 3600) * math.Cos(2*degToRad(lunarLongitude))
	term4 := (0.09 / 3600) * math.Cos(2*degToRad(node))
	return term1 + term2 + term3 - term4
}

func altitudeOfCelestialBody(latitude, declination, hourAngle float64) float64 {
	phi := degToRad(latitude)
	delta := degToRad(declination)
	h := degToRad(hourAngle)
	return radToDeg(math.Asin(math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Cos(h)))
}

func interpolate(value, previous, next, factor float64) float64 {
	a := value - previous
	b := next - value
	c := b - a
	return value + factor/2*(a+b+factor*c)
}

func interpolateAngles(value, previous, next, factor float64) float64 {
	a := unwindAngle(value - previous)
	b := unwindAngle(next - value)
	c := b - a
	return value + factor/2*(a+b+factor*c)
}

// solarCoordinates содержит склонение, прямое восхождение и звёздное время на 0h UT.
type solarCoordinates struct {
	declination    float64
	rightAscension float64
	siderealTime   float64
}

func newSolarCoordinates(jd float64) solarCoordinates {
	t := julianCentury(jd)
	l0 := meanSolarLongitude(t)
	lp := meanLunarLongitude(t)
	node := ascendingLunarNodeLongitude(t)
	lambda := degToRad(apparentSolarLongitude(t, l0))
	theta0 := meanSiderealTime(t)
	dPsi := nutationInLongitude(l0, lp, node)
	dEpsilon := nutationInObliquity(l0, lp, node)
	epsilon0 := meanObliquityOfTheEcliptic(t)
	epsilonApparent := degToRad(apparentObliquityOfTheEcliptic(t, epsilon0))

	return solarCoordinates{
		declination:    radToDeg(math.Asin(math.Sin(epsilonApparent) * math.Sin(lambda))),
		rightAscension: unwindAngle(radToDeg(math.Atan2(math.Cos(epsilonApparent)*math.Sin(lambda), math.Cos(lambda)))),
		siderealTime:   theta0 + dPsi*math.Cos(degToRad(epsilon0+dEpsilon)),
	}
}
