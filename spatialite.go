package geojsmap

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/paulmach/orb/geojson"
	// spatialite driver
	_ "github.com/shaxbee/go-spatialite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

//OpenSpatialite opens a spatialite database, initializing its metadata
//tables on first use
func OpenSpatialite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("spatialite", dsn)
	if err != nil {
		return nil, err
	}
	var layout int
	err = db.QueryRow("SELECT CheckSpatialMetaData()").Scan(&layout)
	if err == nil && layout == 0 {
		_, err = db.Exec("SELECT InitSpatialMetadata()")
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

//QueryFeatures reads every row of table as a feature, geometry from
//geomColumn and the other columns as properties
func QueryFeatures(db *sql.DB, table, geomColumn string) (*geojson.FeatureCollection, error) {
	if !identRe.MatchString(table) || !identRe.MatchString(geomColumn) {
		return nil, fmt.Errorf("invalid table or column name %q.%q", table, geomColumn)
	}
	rows, err := db.Query(fmt.Sprintf("SELECT AsGeoJSON(%s) AS geojson_geom, * FROM %s", geomColumn, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		var gj []byte
		switch v := vals[0].(type) {
		case string:
			gj = []byte(v)
		case []byte:
			gj = v
		}
		if len(gj) == 0 {
			continue
		}
		g, err := geojson.UnmarshalGeometry(gj)
		if err != nil {
			return nil, fmt.Errorf("unable to unmarshal geometry: %w", err)
		}

		f := geojson.NewFeature(g.Geometry())
		for i := 1; i < len(cols); i++ {
			if cols[i] == geomColumn {
				continue
			}
			switch v := vals[i].(type) {
			case []byte:
				f.Properties[cols[i]] = string(v)
			default:
				f.Properties[cols[i]] = v
			}
		}
		fc.Append(f)
	}
	return fc, rows.Err()
}
