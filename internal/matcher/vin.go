package matcher

import "github.com/fixwell/autocare-match/internal/refdata"

// vinYearCodes maps position 10 of a VIN onto a model year. The code cycle
// repeats every 30 years; repair-shop units are overwhelmingly post-2000, so
// the 2001-2030 window is assumed.
var vinYearCodes = map[byte]int{
	'1': 2001, '2': 2002, '3': 2003, '4': 2004, '5': 2005,
	'6': 2006, '7': 2007, '8': 2008, '9': 2009,
	'A': 2010, 'B': 2011, 'C': 2012, 'D': 2013, 'E': 2014,
	'F': 2015, 'G': 2016, 'H': 2017, 'J': 2018, 'K': 2019,
	'L': 2020, 'M': 2021, 'N': 2022, 'P': 2023, 'R': 2024,
	'S': 2025, 'T': 2026, 'V': 2027, 'W': 2028, 'X': 2029,
	'Y': 2030,
}

// vinMakePrefixes maps common WMI prefixes onto catalog make names. The
// table is deliberately partial: an unknown prefix simply yields no
// substitution, never a wrong one.
var vinMakePrefixes = map[string]string{
	"1F": "ford", "2F": "ford", "3F": "ford",
	"1G1": "chevrolet", "1GC": "chevrolet", "2G1": "chevrolet", "3GC": "chevrolet",
	"1GM": "gmc", "1GT": "gmc",
	"1HG": "honda", "2HG": "honda", "JHM": "honda", "JH4": "acura",
	"1N4": "nissan", "JN1": "nissan", "JN8": "nissan",
	"2T1": "toyota", "4T1": "toyota", "5TF": "toyota", "JT": "toyota",
	"1C4": "jeep", "1C6": "ram", "2C3": "chrysler", "3C4": "chrysler",
	"1D7": "dodge", "2D4": "dodge",
	"5YJ": "tesla",
	"WBA": "bmw", "WBS": "bmw",
	"WDB": "mercedes-benz", "WDD": "mercedes-benz",
	"WVW": "volkswagen", "3VW": "volkswagen",
	"WAU": "audi",
	"YV1": "volvo",
	"KM8": "hyundai", "KMH": "hyundai",
	"KNA": "kia", "KND": "kia",
	"JF1": "subaru", "JF2": "subaru",
	"JM1": "mazda", "4F2": "mazda",
}

// vinDecoded carries whatever could be read out of a structurally valid VIN.
type vinDecoded struct {
	Make string
	Year int
}

// decodeVIN extracts make and model year hints from a normalized, valid VIN.
// Fields that cannot be decoded stay zero.
func decodeVIN(vin string) vinDecoded {
	var d vinDecoded
	if !refdata.ValidVIN(vin) {
		return d
	}

	if year, ok := vinYearCodes[vin[9]]; ok {
		d.Year = year
	}

	// Longest prefix wins so "1G1" beats a hypothetical "1G".
	for l := 3; l >= 2; l-- {
		if name, ok := vinMakePrefixes[vin[:l]]; ok {
			d.Make = name
			break
		}
	}

	return d
}
