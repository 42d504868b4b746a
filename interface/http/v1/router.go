package v1

import (
	"github.com/gorilla/mux"
	"github.com/shimmeringbee/logwrap"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/interface/http/auth"
	"github.com/vantagebridge/controller/state"
	"net/http"
)

func ConstructRouter(mapper state.GatewayMapper, directory *bridge.Directory, devices *state.DeviceRegistry, entities *state.EntityRegistry, l logwrap.Logger, ap auth.AuthenticationProvider, eventbus state.EventSubscriber) http.Handler {
	protected := mux.NewRouter()

	ec := entityController{
		directory: directory,
	}

	dc := deviceController{
		devices:  devices,
		entities: entities,
	}

	gc := gatewayController{
		gatewayMapper: mapper,
		directory:     directory,
	}

	tc := taskController{
		directory: directory,
	}

	wc := websocketController{
		eventbus: eventbus,
		eventMapper: websocketEventMapper{
			directory: directory,
		},
		logger: l,
	}

	protected.HandleFunc("/entities", ec.listEntities).Methods("GET")
	protected.HandleFunc("/entities/{entityId}", ec.getEntity).Methods("GET")
	protected.HandleFunc("/entities/{entityId}/actions/{action}", ec.invokeEntityAction).Methods("POST")

	protected.HandleFunc("/devices", dc.listDevices).Methods("GET")
	protected.HandleFunc("/devices/{identifier}", dc.getDevice).Methods("GET")
	protected.HandleFunc("/devices/{identifier}/entities", dc.listEntitiesOnDevice).Methods("GET")

	protected.HandleFunc("/gateways", gc.listGateways).Methods("GET")
	protected.HandleFunc("/gateways/{identifier}", gc.getGateway).Methods("GET")
	protected.HandleFunc("/gateways/{identifier}/entities", gc.listEntitiesOnGateway).Methods("GET")
	protected.HandleFunc("/gateways/{identifier}/areas", gc.listAreasOnGateway).Methods("GET")
	protected.HandleFunc("/gateways/{identifier}/tasks/{task}/start", tc.startTask).Methods("POST")
	protected.HandleFunc("/gateways/{identifier}/tasks/{task}/stop", tc.stopTask).Methods("POST")

	protected.HandleFunc("/websocket", wc.serveWebsocket).Methods("GET")

	apiRoot := mux.NewRouter()
	apiRoot.Handle("/auth/type", authenticationType(ap)).Methods("GET")
	apiRoot.Handle("/auth/check", ap.AuthenticationMiddleware(http.HandlerFunc(authenticationCheck))).Methods("GET")
	apiRoot.PathPrefix("/auth").Handler(ap.AuthenticationRouter())
	apiRoot.PathPrefix("/").Handler(ap.AuthenticationMiddleware(protected))

	return apiRoot
}
