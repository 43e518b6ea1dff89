package crs

import "github.com/wroge/wgs84"

// OSGB36 returns the British National Grid:
// +proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000
// +y_0=-100000 +ellps=airy +units=m
func OSGB36() Adapter {
	// Airy 1830 with the towgs84 parameters from EPSG:27700
	datum := wgs84.Helmert(6377563.396, 299.3249646,
		446.448, -125.157, 542.06,
		0.15, 0.247, 0.842,
		-20.489,
	)
	datum.Area = wgs84.AreaFunc(func(lon, lat float64) bool {
		return lon >= -9 && lon <= 2.5 && lat >= 49 && lat <= 61.5
	})
	return New(datum.TransverseMercator(-2, 49, 0.9996012717, 400000, -100000))
}

// IrishGrid returns the Irish Grid (TM75):
// +proj=tmerc +lat_0=53.5 +lon_0=-8 +k=1.000035 +x_0=200000
// +y_0=250000 +ellps=mod_airy +units=m
func IrishGrid() Adapter {
	// Airy Modified with the towgs84 parameters from EPSG:29903
	datum := wgs84.Helmert(6377340.189, 299.3249646,
		482.5, -130.6, 564.6,
		-1.042, -0.214, -0.631,
		8.15,
	)
	datum.Area = wgs84.AreaFunc(func(lon, lat float64) bool {
		return lon >= -11 && lon <= -4.5 && lat >= 51 && lat <= 55.75
	})
	return New(datum.TransverseMercator(-8, 53.5, 1.000035, 200000, 250000))
}

// UTM returns the WGS84 transverse mercator for the given zone, with
// the usual 10,000km false northing on the southern hemisphere.
func UTM(zone int, northern bool) Adapter {
	lon0 := float64(zone)*6 - 183
	falseNorthing := 0.0
	if !northern {
		falseNorthing = 10000000
	}
	datum := wgs84.WGS84()
	datum.Area = wgs84.AreaFunc(func(lon, lat float64) bool {
		// a zone plus a square's worth of slack either side
		return lon >= lon0-4 && lon <= lon0+4 && lat >= -80 && lat <= 84
	})
	return New(datum.TransverseMercator(lon0, 0, 0.9996, 500000, falseNorthing))
}
