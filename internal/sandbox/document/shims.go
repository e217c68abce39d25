package document

// telemetryScript captures console output, network activity, uncaught errors,
// and DOM inspection events, and relays them to the host. Transient noise is
// tagged ignorable here, at the source, so the host console still shows it
// while the fix pipeline can cheaply skip it.
const telemetryScript = `(function () {
  "use strict";

  var IGNORABLE_PATTERNS = [
    "resizeobserver loop",
    "script error",
    "loading chunk",
    "loading css chunk",
    "maximum update depth",
    "non-passive event listener",
    "was not wrapped in act(",
    "devtools failed to load source map"
  ];

  function isIgnorable(message) {
    var lower = String(message).toLowerCase();
    for (var i = 0; i < IGNORABLE_PATTERNS.length; i++) {
      if (lower.indexOf(IGNORABLE_PATTERNS[i]) !== -1) return true;
    }
    return false;
  }

  function post(payload) {
    payload.incarnation = window.__SANDBOX_INCARNATION__;
    try {
      window.parent.postMessage(payload, "*");
    } catch (e) {
      // Host gone; telemetry is best-effort.
    }
  }

  function stringify(args) {
    var parts = [];
    for (var i = 0; i < args.length; i++) {
      var arg = args[i];
      if (arg instanceof Error) {
        parts.push(arg.message + (arg.stack ? "\n" + arg.stack : ""));
      } else if (typeof arg === "object" && arg !== null) {
        try { parts.push(JSON.stringify(arg)); } catch (e) { parts.push(String(arg)); }
      } else {
        parts.push(String(arg));
      }
    }
    return parts.join(" ");
  }

  ["log", "warn", "error", "info"].forEach(function (level) {
    var original = console[level];
    console[level] = function () {
      var message = stringify(arguments);
      post({
        kind: "console",
        logType: level,
        message: message,
        ignorable: isIgnorable(message),
        timestamp: Date.now()
      });
      original.apply(console, arguments);
    };
  });

  window.addEventListener("error", function (event) {
    var message = event.message || "Unknown script error";
    if (event.filename) {
      message += " (at " + event.filename + ":" + event.lineno + ":" + event.colno + ")";
    }
    post({
      kind: "console",
      logType: "error",
      message: message,
      ignorable: isIgnorable(message),
      timestamp: Date.now()
    });
  });

  window.addEventListener("unhandledrejection", function (event) {
    var reason = event.reason;
    var message = "Unhandled promise rejection: " +
      (reason && reason.message ? reason.message : String(reason));
    post({
      kind: "console",
      logType: "error",
      message: message,
      ignorable: isIgnorable(message),
      timestamp: Date.now()
    });
  });

  var originalFetch = window.fetch;
  window.fetch = function (input, init) {
    var started = Date.now();
    var method = (init && init.method) || "GET";
    var url = typeof input === "string" ? input : (input && input.url) || "";
    return originalFetch.apply(window, arguments).then(
      function (response) {
        post({
          kind: "network",
          method: method,
          url: url,
          status: response.status,
          duration: Date.now() - started,
          timestamp: Date.now()
        });
        return response;
      },
      function (err) {
        post({
          kind: "network",
          method: method,
          url: url,
          status: 0,
          duration: Date.now() - started,
          timestamp: Date.now()
        });
        throw err;
      }
    );
  };

  // Best-effort component-name lookup: walks the framework's internal fiber
  // keys. Returns null on any failure; inspection works without it.
  function componentNameOf(el) {
    try {
      for (var key in el) {
        if (key.indexOf("__reactFiber$") === 0 || key.indexOf("__reactInternalInstance$") === 0) {
          var fiber = el[key];
          while (fiber) {
            var type = fiber.type;
            if (typeof type === "function" && (type.displayName || type.name)) {
              return type.displayName || type.name;
            }
            fiber = fiber.return;
          }
        }
      }
    } catch (e) {}
    return null;
  }

  function describe(el) {
    var rect = el.getBoundingClientRect();
    var ancestors = [];
    var node = el.parentElement;
    while (node && node !== document.body && ancestors.length < 6) {
      ancestors.push(node.tagName.toLowerCase());
      node = node.parentElement;
    }
    return {
      tag: el.tagName.toLowerCase(),
      id: el.id || "",
      className: typeof el.className === "string" ? el.className : "",
      text: (el.textContent || "").slice(0, 120),
      component: componentNameOf(el),
      ancestors: ancestors,
      rect: { x: rect.x, y: rect.y, width: rect.width, height: rect.height }
    };
  }

  var inspectArmed = false;
  window.addEventListener("message", function (event) {
    var data = event.data;
    if (data && data.kind === "inspect-mode") inspectArmed = !!data.enabled;
  });

  document.addEventListener("mouseover", function (event) {
    if (!inspectArmed || !event.target || event.target === document.body) return;
    post({ kind: "inspect", action: "hover", element: describe(event.target), timestamp: Date.now() });
  }, true);

  document.addEventListener("mouseout", function (event) {
    if (!inspectArmed) return;
    post({ kind: "inspect", action: "leave", timestamp: Date.now() });
  }, true);

  document.addEventListener("click", function (event) {
    if (!inspectArmed || !event.target) return;
    event.preventDefault();
    event.stopPropagation();
    post({ kind: "inspect", action: "select", element: describe(event.target), timestamp: Date.now() });
  }, true);

  window.addEventListener("scroll", function () {
    if (!inspectArmed) return;
    post({ kind: "inspect", action: "scroll", timestamp: Date.now() });
  }, true);
})();`

// navigationScript confines all client navigation to an in-memory stack. The
// semantics mirror the host's history package exactly: push truncates forward
// entries, back/forward/go are bounds-checked no-ops, and every mutation
// notifies subscribers, dispatches a popstate, and reports the URL to the host.
const navigationScript = `(function () {
  "use strict";

  var entries = [{ state: null, title: "", url: "/" }];
  var index = 0;
  var subscribers = [];

  function parseLocation(url) {
    var loc = { pathname: "/", search: "", hash: "" };
    if (!url) return loc;
    var schemeIdx = url.indexOf("://");
    if (schemeIdx >= 0) {
      var rest = url.slice(schemeIdx + 3);
      var slash = rest.indexOf("/");
      if (slash < 0) return loc;
      url = rest.slice(slash);
    }
    var hashIdx = url.indexOf("#");
    if (hashIdx >= 0) { loc.hash = url.slice(hashIdx); url = url.slice(0, hashIdx); }
    var searchIdx = url.indexOf("?");
    if (searchIdx >= 0) { loc.search = url.slice(searchIdx); url = url.slice(0, searchIdx); }
    if (!url) return loc;
    loc.pathname = url.charAt(0) === "/" ? url : "/" + url;
    return loc;
  }

  function currentLocation() {
    return parseLocation(entries[index].url);
  }

  function report() {
    try {
      window.parent.postMessage({
        kind: "urlchange",
        url: entries[index].url,
        canGoBack: index > 0,
        canGoForward: index < entries.length - 1,
        incarnation: window.__SANDBOX_INCARNATION__
      }, "*");
    } catch (e) {}
  }

  function notify() {
    var loc = currentLocation();
    for (var i = 0; i < subscribers.length; i++) {
      try { subscribers[i](loc); } catch (e) {}
    }
    window.dispatchEvent(new PopStateEvent("popstate", { state: entries[index].state }));
    report();
  }

  var virtualHistory = {
    get length() { return entries.length; },
    get state() { return entries[index].state; },
    pushState: function (state, title, url) {
      entries = entries.slice(0, index + 1);
      entries.push({ state: state, title: title || "", url: String(url || "/") });
      index = entries.length - 1;
      notify();
    },
    replaceState: function (state, title, url) {
      entries[index] = { state: state, title: title || "", url: String(url || "/") };
      notify();
    },
    back: function () { this.go(-1); },
    forward: function () { this.go(1); },
    go: function (delta) {
      var target = index + (delta | 0);
      if (target < 0 || target >= entries.length) return;
      index = target;
      notify();
    }
  };

  var virtualLocation = {
    get pathname() { return currentLocation().pathname; },
    get search() { return currentLocation().search; },
    get hash() { return currentLocation().hash; },
    get href() { return entries[index].url; },
    assign: function (url) { virtualHistory.pushState(null, "", url); },
    replace: function (url) { virtualHistory.replaceState(null, "", url); },
    reload: function () {},
    toString: function () { return entries[index].url; }
  };

  try {
    Object.defineProperty(window, "history", { get: function () { return virtualHistory; } });
  } catch (e) {
    // Non-configurable in this engine; fall back to patching the methods.
    window.history.pushState = virtualHistory.pushState.bind(virtualHistory);
    window.history.replaceState = virtualHistory.replaceState.bind(virtualHistory);
    window.history.back = virtualHistory.back.bind(virtualHistory);
    window.history.forward = virtualHistory.forward.bind(virtualHistory);
    window.history.go = virtualHistory.go.bind(virtualHistory);
  }

  try {
    Object.defineProperty(window, "location", {
      get: function () { return virtualLocation; },
      set: function (url) { virtualHistory.pushState(null, "", String(url)); }
    });
  } catch (e) {
    // location is non-configurable in some engines; direct assignment is not
    // interceptable there. Documented limitation, not a crash.
  }

  document.addEventListener("click", function (event) {
    var node = event.target;
    while (node && node.tagName !== "A") node = node.parentElement;
    if (!node || !node.getAttribute) return;
    var href = node.getAttribute("href");
    if (href === null) return;

    if (/^https?:\/\//i.test(href)) {
      event.preventDefault();
      window.open(href, "_blank", "noopener");
      return;
    }
    if (/^(mailto:|tel:)/i.test(href)) {
      return; // allowed through
    }
    if (href.charAt(0) === "#") {
      event.preventDefault();
      var target = document.getElementById(href.slice(1));
      if (target) target.scrollIntoView();
      virtualHistory.pushState(null, "", currentLocation().pathname + href);
      return;
    }
    event.preventDefault();
    virtualHistory.pushState(null, "", href);
  }, true);

  document.addEventListener("submit", function (event) {
    var form = event.target;
    if (!form || !form.getAttribute) return;
    var action = form.getAttribute("action");
    if (action === null || action === "") return;
    event.preventDefault();
    virtualHistory.pushState(null, "", action);
  }, true);

  window.addEventListener("message", function (event) {
    var data = event.data;
    if (!data) return;
    switch (data.kind) {
      case "navigate":
        virtualHistory.pushState(null, "", data.url);
        break;
      case "back":
        virtualHistory.back();
        break;
      case "forward":
        virtualHistory.forward();
        break;
    }
  });

  // Hook equivalents for generated code using common router idioms.
  window.__sandboxRouter = {
    subscribe: function (fn) {
      subscribers.push(fn);
      return function () {
        var at = subscribers.indexOf(fn);
        if (at >= 0) subscribers.splice(at, 1);
      };
    },
    useLocation: function () { return currentLocation(); },
    useNavigate: function () {
      return function (to, options) {
        if (options && options.replace) virtualHistory.replaceState(null, "", to);
        else virtualHistory.pushState(null, "", to);
      };
    },
    useSearchParams: function () {
      return new URLSearchParams(currentLocation().search);
    }
  };

  report();
})();`
