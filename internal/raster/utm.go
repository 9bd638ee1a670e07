package raster

import (
	"errors"
	"fmt"
	"math"
)

// WGS84 ellipsoid and transverse Mercator constants.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

// ErrUnsupportedCRS is returned for EPSG codes outside WGS84 and the UTM
// zone ranges Sentinel-2 products are delivered in.
var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

// epsgWGS84 is geographic WGS84; UTM zones are 326xx (north) and 327xx (south).
const (
	epsgWGS84    = 4326
	epsgUTMNorth = 32600
	epsgUTMSouth = 32700
	utmZones     = 60
)

// projectToCRS converts a WGS84 lon/lat pair into the target CRS. Geographic
// targets pass through unchanged; UTM targets go through the forward
// transverse Mercator projection (Snyder series expansion).
func projectToCRS(lon, lat float64, epsg int) (x, y float64, err error) {
	if epsg == epsgWGS84 {
		return lon, lat, nil
	}

	zone, south, err := utmZoneFromEPSG(epsg)
	if err != nil {
		return 0, 0, err
	}

	x, y = lonLatToUTM(lon, lat, float64(zone))
	if south {
		y += falseNorthing
	}
	return x, y, nil
}

func utmZoneFromEPSG(epsg int) (zone int, south bool, err error) {
	switch {
	case epsg > epsgUTMNorth && epsg <= epsgUTMNorth+utmZones:
		return epsg - epsgUTMNorth, false, nil
	case epsg > epsgUTMSouth && epsg <= epsgUTMSouth+utmZones:
		return epsg - epsgUTMSouth, true, nil
	default:
		return 0, false, fmt.Errorf("%w: EPSG:%d", ErrUnsupportedCRS, epsg)
	}
}

// lonLatToUTM computes UTM easting and northing of a WGS84 coordinate within
// the given zone. Northing is relative to the equator; the southern false
// northing is applied by the caller.
func lonLatToUTM(lon, lat, zone float64) (easting, northing float64) {
	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180
	lam0 := (zone*6 - 183) * math.Pi / 180

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := sinPhi / cosPhi

	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := (lam - lam0) * cosPhi

	m := semiMajorAxis * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting = falseEasting + scaleFactor*n*(a+
		(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120)

	northing = scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))

	return easting, northing
}
