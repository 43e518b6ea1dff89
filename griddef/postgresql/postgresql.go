// Package postgresql sources grid definitions from a postgres
// database, for deployments that manage their grids (and clip
// coastlines) alongside their other geodata.
package postgresql

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/go-spatial/geom"
	"github.com/jackc/pgx"
	"github.com/pkg/errors"

	"github.com/go-spatial/gridline/crs"
	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
	"github.com/go-spatial/gridline/gridline/interval"
	"github.com/go-spatial/gridline/gridline/namer"
)

// Name is the name of the provider type.
const Name = "postgresql"

// AppName is shown by the pg client.
var AppName = "gridline"

const (
	// DefaultPort is the default port for postgres.
	DefaultPort = 5432
	// DefaultMaxConn is the max number of connections to attempt.
	DefaultMaxConn = 100
	// DefaultSSLMode by default ssl is disabled.
	DefaultSSLMode = "disable"
	// DefaultSSLKey by default is empty.
	DefaultSSLKey = ""
	// DefaultSSLCert by default is empty.
	DefaultSSLCert = ""
)

const (
	// ConfigKeyHost is the config key for the postgres host.
	ConfigKeyHost = "host"
	// ConfigKeyPort is the config key for the postgres port.
	ConfigKeyPort = "port"
	// ConfigKeyDB is the config key for the postgres db.
	ConfigKeyDB = "database"
	// ConfigKeyUser is the config key for the postgres user.
	ConfigKeyUser = "user"
	// ConfigKeyPassword is the config key for the postgres user's password.
	ConfigKeyPassword = "password"
	// ConfigKeySSLMode is the config key for the postgres SSL.
	ConfigKeySSLMode = "ssl_mode"
	// ConfigKeySSLKey is the config key for the postgres SSL.
	ConfigKeySSLKey = "ssl_key"
	// ConfigKeySSLCert is the config key for the postgres SSL.
	ConfigKeySSLCert = "ssl_cert"
	// ConfigKeySSLRootCert is the config key for the postgres SSL.
	ConfigKeySSLRootCert = "ssl_root_cert"
	// ConfigKeyMaxConn is the max number of connections to keep in the pool.
	ConfigKeyMaxConn = "max_connections"

	// ConfigKeyQueryGrid is the sql for getting a grid row by name.
	ConfigKeyQueryGrid = "query_grid"
	// ConfigKeyQueryClip is the sql for getting a grid's clip ring.
	ConfigKeyQueryClip = "query_clip"
	// ConfigKeyQueryList is the sql for listing grid names.
	ConfigKeyQueryList = "query_list"
)

// ErrInvalidSSLMode is returned when something is wrong with the SSL
// configuration.
type ErrInvalidSSLMode string

func (e ErrInvalidSSLMode) Error() string {
	return fmt.Sprintf("postgresql: invalid ssl mode (%v)", string(e))
}

func init() {
	griddef.Register(Name, NewProvider, Cleanup)
}

// Provider implements griddef.Provider over a postgres database.
type Provider struct {
	config    pgx.ConnPoolConfig
	pool      *pgx.ConnPool
	queryGrid string
	queryClip string
	queryList string
}

// NewProvider returns a definition provider backed by postgres.
func NewProvider(config griddef.ProviderConfig) (griddef.Provider, error) {
	host, err := config.String(ConfigKeyHost, nil)
	if err != nil {
		return nil, err
	}

	db, err := config.String(ConfigKeyDB, nil)
	if err != nil {
		return nil, err
	}

	user, err := config.String(ConfigKeyUser, nil)
	if err != nil {
		return nil, err
	}

	password, err := config.String(ConfigKeyPassword, nil)
	if err != nil {
		return nil, err
	}

	sslmode := DefaultSSLMode
	if sslmode, err = config.String(ConfigKeySSLMode, &sslmode); err != nil {
		return nil, err
	}

	sslkey := DefaultSSLKey
	if sslkey, err = config.String(ConfigKeySSLKey, &sslkey); err != nil {
		return nil, err
	}

	sslcert := DefaultSSLCert
	if sslcert, err = config.String(ConfigKeySSLCert, &sslcert); err != nil {
		return nil, err
	}

	sslrootcert := DefaultSSLCert
	if sslrootcert, err = config.String(ConfigKeySSLRootCert, &sslrootcert); err != nil {
		return nil, err
	}

	port := DefaultPort
	if port, err = config.Int(ConfigKeyPort, &port); err != nil {
		return nil, err
	}

	maxcon := DefaultMaxConn
	if maxcon, err = config.Int(ConfigKeyMaxConn, &maxcon); err != nil {
		return nil, err
	}

	var queryGrid string
	queryGrid, _ = config.String(ConfigKeyQueryGrid, &queryGrid)
	var queryClip string
	queryClip, _ = config.String(ConfigKeyQueryClip, &queryClip)
	var queryList string
	queryList, _ = config.String(ConfigKeyQueryList, &queryList)

	connConfig := pgx.ConnConfig{
		Host:     host,
		Port:     uint16(port),
		Database: db,
		User:     user,
		Password: password,
		LogLevel: pgx.LogLevelWarn,
		RuntimeParams: map[string]string{
			"default_transaction_read_only": "TRUE",
			"application_name":              AppName,
		},
	}

	if err = ConfigTLS(sslmode, sslkey, sslcert, sslrootcert, &connConfig); err != nil {
		return nil, err
	}

	p := Provider{
		config: pgx.ConnPoolConfig{
			ConnConfig:     connConfig,
			MaxConnections: maxcon,
		},
		queryGrid: queryGrid,
		queryClip: queryClip,
		queryList: queryList,
	}
	if p.pool, err = pgx.NewConnPool(p.config); err != nil {
		return nil, errors.Wrap(err, "failed while creating connection pool")
	}

	// track the provider so we can clean it up later
	pLock.Lock()
	providers = append(providers, &p)
	pLock.Unlock()
	return &p, nil
}

// ConfigTLS is used to configure TLS.
// derived from github.com/jackc/pgx configTLS (https://github.com/jackc/pgx/blob/master/conn.go)
func ConfigTLS(sslMode string, sslKey string, sslCert string, sslRootCert string, cc *pgx.ConnConfig) error {
	switch sslMode {
	case "disable":
		cc.UseFallbackTLS = false
		cc.TLSConfig = nil
		cc.FallbackTLSConfig = nil
		return nil
	case "allow":
		cc.UseFallbackTLS = true
		cc.FallbackTLSConfig = &tls.Config{InsecureSkipVerify: true}
	case "prefer":
		cc.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		cc.UseFallbackTLS = true
		cc.FallbackTLSConfig = nil
	case "require":
		cc.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	case "verify-ca", "verify-full":
		cc.TLSConfig = &tls.Config{
			ServerName: cc.Host,
		}
	default:
		return ErrInvalidSSLMode(sslMode)
	}

	if sslRootCert != "" {
		caCertPool := x509.NewCertPool()

		caCert, err := ioutil.ReadFile(sslRootCert)
		if err != nil {
			return fmt.Errorf("unable to read CA file (%q): %v", sslRootCert, err)
		}

		if !caCertPool.AppendCertsFromPEM(caCert) {
			return fmt.Errorf("unable to add CA to cert pool")
		}

		cc.TLSConfig.RootCAs = caCertPool
		cc.TLSConfig.ClientCAs = caCertPool
	}

	if (sslCert == "") != (sslKey == "") {
		return fmt.Errorf("both 'sslcert' and 'sslkey' are required")
	} else if sslCert != "" { // we must have both now
		cert, err := tls.LoadX509KeyPair(sslCert, sslKey)
		if err != nil {
			return fmt.Errorf("unable to read cert: %v", err)
		}

		cc.TLSConfig.Certificates = []tls.Certificate{cert}
	}

	return nil
}

// GridFor looks the named definition up in the database.
func (p *Provider) GridFor(name string) (*gridline.Definition, error) {
	const selectQuery = `
SELECT
  crs,
  min_easting,
  min_northing,
  max_easting,
  max_northing,
  namer,
  min_zoom,
  subscript
FROM
  gridline.grids
WHERE
  name = $1
LIMIT 1;
`
	query := selectQuery
	if p.queryGrid != "" {
		query = p.queryGrid
	}

	row := p.pool.QueryRow(query, name)
	def, err := p.defFromRow(name, row)
	if err == pgx.ErrNoRows {
		return nil, griddef.ErrGridNotFound(name)
	}
	if err != nil {
		return nil, err
	}

	if def.ClipPolygon, err = p.clipRing(name); err != nil {
		return nil, err
	}
	return def, nil
}

// clipRing fetches the grid's clip polygon, one vertex per row in
// ring order. No rows means no clip.
func (p *Provider) clipRing(name string) ([][2]float64, error) {
	const selectQuery = `
SELECT
  easting,
  northing
FROM
  gridline.clip_rings
WHERE
  grid_name = $1
ORDER BY
  position;
`
	query := selectQuery
	if p.queryClip != "" {
		query = p.queryClip
	}

	rows, err := p.pool.Query(query, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query clip ring")
	}
	defer rows.Close()

	var ring [][2]float64
	for rows.Next() {
		var e, n float64
		if err = rows.Scan(&e, &n); err != nil {
			return nil, errors.Wrap(err, "failed to scan clip vertex")
		}
		ring = append(ring, [2]float64{e, n})
	}
	return ring, rows.Err()
}

// Grids lists the definition names in the database.
func (p *Provider) Grids() ([]string, error) {
	const selectQuery = `
SELECT
  name
FROM
  gridline.grids
ORDER BY
  name;
`
	query := selectQuery
	if p.queryList != "" {
		query = p.queryList
	}

	rows, err := p.pool.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list grids")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// defFromRow parses grid attributes into a gridline.Definition.
func (p *Provider) defFromRow(name string, row *pgx.Row) (*gridline.Definition, error) {
	var (
		crsID sql.NullString

		minEasting  sql.NullFloat64
		minNorthing sql.NullFloat64
		maxEasting  sql.NullFloat64
		maxNorthing sql.NullFloat64

		namerID   sql.NullString
		minZoom   sql.NullFloat64
		subscript sql.NullBool
	)

	err := row.Scan(
		&crsID,
		&minEasting,
		&minNorthing,
		&maxEasting,
		&maxNorthing,
		&namerID,
		&minZoom,
		&subscript,
	)
	if err != nil {
		return nil, err
	}

	adapter, err := crs.ForID(crsID.String)
	if err != nil {
		return nil, err
	}

	def := gridline.Definition{
		Name: name,
		CRS:  adapter,
		Bounds: geom.NewExtent(
			[2]float64{minEasting.Float64, minNorthing.Float64},
			[2]float64{maxEasting.Float64, maxNorthing.Float64},
		),
		MinZoom:   minZoom.Float64,
		Subscript: subscript.Bool,
		AxisIntervals: []interval.Interval{
			interval.Interval100, interval.Interval1K,
			interval.Interval10K, interval.Interval100K,
		},
		SquareIntervals: []interval.Interval{
			interval.Interval10K, interval.Interval100K,
		},
	}
	if namerID.Valid && namerID.String != "" {
		if def.Namer, err = namer.For(namerID.String); err != nil {
			return nil, err
		}
	}
	return &def, nil
}

// Close will close the provider's database connection.
func (p *Provider) Close() { p.pool.Close() }

var pLock sync.RWMutex

// reference to all instantiated providers
var providers []*Provider

// Cleanup will close all database connections and destroy all
// previously instantiated Provider instances.
func Cleanup() {
	if len(providers) == 0 {
		// Nothing to do
		return
	}
	pLock.Lock()
	for i := range providers {
		providers[i].Close()
	}
	providers = make([]*Provider, 0)
	pLock.Unlock()
}
