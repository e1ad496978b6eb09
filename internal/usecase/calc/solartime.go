package calc

import (
	"math"

	"hilal/internal/domain"
)

// solarTime содержит транзит, восход и закат в часах UT от начала даты.
type solarTime struct {
	latitude    float64
	longitude   float64
	solar       solarCoordinates
	prev        solarCoordinates
	next        solarCoordinates
	approxTrans float64

	transit float64
	sunrise float64
	sunset  float64
	hasRise bool
	hasSet  bool
}

func newSolarTime(date domain.Date, coord domain.GeoCoordinate) solarTime {
	jd := julianDay(date.Year, int(date.Month), date.Day)
	st := solarTime{
		latitude:  coord.Latitude,
		longitude: coord.Longitude,
		solar:     newSolarCoordinates(jd),
		prev:      newSolarCoordinates(jd - 1),
		next:      newSolarCoordinates(jd + 1),
	}
	st.approxTrans = approximateTransit(st.longitude, st.solar.siderealTime, st.solar.rightAscension)
	st.transit = st.correctedTransit()
	st.sunrise, st.hasRise = st.hourAngle(horizonAltitude, false)
	st.sunset, st.hasSet = st.hourAngle(horizonAltitude, true)
	return st
}

func approximateTransit(longitude, siderealTime, rightAscension float64) float64 {
	lw := -longitude
	return normalizeToScale((rightAscension+lw-siderealTime)/360, 1)
}

func (st solarTime) correctedTransit() float64 {
	lw := -st.longitude
	m0 := st.approxTrans
	theta := unwindAngle(st.solar.siderealTime + 360.985647*m0)
	alpha := unwindAngle(interpolateAngles(st.solar.rightAscension, st.prev.rightAscension, st.next.rightAscension, m0))
	h := quadrantShiftAngle(theta - lw - alpha)
	return (m0 + h/-360) * 24
}

// hourAngle решает уравнение часового угла для заданной высоты Солнца.
// Возвращает false, если аргумент арккосинуса выходит за [-1, 1].
func (st solarTime) hourAngle(altitude float64, afterTransit bool) (float64, bool) {
	lw := -st.longitude
	phi := degToRad(st.latitude)
	delta := degToRad(st.solar.declination)
	arg := (math.Sin(degToRad(altitude)) - math.Sin(phi)*math.Sin(delta)) / (math.Cos(phi) * math.Cos(delta))
	if math.IsNaN(arg) || arg < -1 || arg > 1 {
		return 0, false
	}
	h0 := radToDeg(math.Acos(arg))
	m := st.approxTrans - h0/360
	if afterTransit {
		m = st.approxTrans + h0/360
	}
	theta := unwindAngle(st.solar.siderealTime + 360.985647*m)
	alpha := unwindAngle(interpolateAngles(st.solar.rightAscension, st.prev.rightAscension, st.next.rightAscension, m))
	decl := interpolate(st.solar.declination, st.prev.declination, st.next.declination, m)
	h := theta - lw - alpha
	alt := altitudeOfCelestialBody(st.latitude, decl, h)
	dm := (alt - altitude) / (360 * math.Cos(degToRad(decl)) * math.Cos(phi) * math.Sin(degToRad(h)))
	result := (m + dm) * 24
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false
	}
	return result, true
}

// afternoon возвращает момент, когда тень равна shadowFactor + tan|φ-δ| высоты предмета.
func (st solarTime) afternoon(shadowFactor float64) (float64, bool) {
	tangent := math.Abs(st.latitude - st.solar.declination)
	inverse := shadowFactor + math.Tan(degToRad(tangent))
	angle := radToDeg(math.Atan(1 / inverse))
	return st.hourAngle(angle, true)
}
