package constants

const (
	ViperPortKey = "port"

	ViperUseDatabaseKey = "use_database"
	ViperDBHostKey      = "db.host"
	ViperDBPortKey      = "db.port"
	ViperDBUserKey      = "db.user"
	ViperDBPasswordKey  = "db.password"
	ViperDBNameKey      = "db.name"
	ViperDBMaxConnsKey  = "db.max_conns"

	ViperCSVDataDirKey = "csv.data_dir"

	ViperHouseEncodingKey = "house.encoding"
	ViperHousePrefixKey   = "house.prefix"
	ViperHouseMarkerKey   = "house.marker"

	ViperServiceProviderKey = "api.service_provider"
	ViperEmptyNotFoundKey   = "store.empty_as_not_found"

	ViperLogLevelKey       = "log.level"
	ViperLogDevelopmentKey = "log.development"

	ViperImportForceKey = "import.force"
	ViperImportHouseKey = "import.house"
)

const (
	CtxKeyRequestID = ctxKey("request_id")
)

type ctxKey string
